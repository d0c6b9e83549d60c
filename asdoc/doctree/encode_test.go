package doctree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Node {
	root := New("asdoc")
	pkg := New("apiPackage").Set("id", "mx.controls")
	pkg.AppendText("apiName", "mx.controls")
	cls := New("apiClassifier").Set("id", "mx.controls:Button").Set("a", "first")
	cls.AppendText("apiName", "Button")
	cls.Append(MarkupElem("apiDesc", "A <b>button</b> &amp; more."))
	cls.Append(New("apiFinal"))
	pkg.Append(cls, nil)
	root.Append(pkg)
	return root
}

func TestXMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXMLEncoder(&buf).Encode(sampleTree()))

	expected := `<?xml version="1.0" encoding="UTF-8"?>
<asdoc>
  <apiPackage id="mx.controls">
    <apiName>mx.controls</apiName>
    <apiClassifier a="first" id="mx.controls:Button">
      <apiName>Button</apiName>
      <apiDesc>A <b>button</b> &amp; more.</apiDesc>
      <apiFinal/>
    </apiClassifier>
  </apiPackage>
</asdoc>
`
	assert.Equal(t, expected, buf.String())
}

func TestXMLEncoderEscapesPlainText(t *testing.T) {
	root := Elem("apiType", "Vector.<String>").Set("q", `say "hi"`)
	text, err := (&XMLEncoder{root: root}).MarshalText()
	require.NoError(t, err)
	assert.Contains(t, string(text), `<apiType q="say &#34;hi&#34;">Vector.&lt;String&gt;</apiType>`)
}

func TestJSONAndYAMLRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := NewEncoder(format, &buf)
			require.NoError(t, err)
			require.NoError(t, enc.Encode(sampleTree()))

			decoded, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, sampleTree(), decoded)
		})
	}
}

func TestJSONAttributeKeysSorted(t *testing.T) {
	text, err := (&JSONEncoder{root: sampleTree()}).MarshalText()
	require.NoError(t, err)
	s := string(text)
	assert.Less(t, strings.Index(s, `"a": "first"`), strings.Index(s, `"id": "mx.controls:Button"`))
}

func TestNewEncoderUnknownFormat(t *testing.T) {
	_, err := NewEncoder("html", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNodeNavigation(t *testing.T) {
	root := sampleTree()

	assert.Equal(t, "Button", root.Path("apiPackage/apiClassifier/apiName").Text)
	assert.Nil(t, root.Path("apiPackage/missing"))
	assert.Len(t, root.Child("apiPackage").ChildrenNamed("apiClassifier"), 1)

	var tags []string
	root.Walk(func(n *Node) bool {
		tags = append(tags, n.TagName)
		return n.TagName != "apiClassifier"
	})
	assert.Equal(t, []string{"asdoc", "apiPackage", "apiName", "apiClassifier"}, tags)
}

func TestClone(t *testing.T) {
	root := sampleTree()
	c := root.Clone()
	c.Child("apiPackage").Set("id", "changed")
	assert.Equal(t, "mx.controls", root.Child("apiPackage").Attr("id"))
	assert.Equal(t, sampleTree(), root)
}
