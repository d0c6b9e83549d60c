package assemble

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/doctree"
	"github.com/dhamidi/asdoc/asdoc/registry"
	"github.com/dhamidi/asdoc/asdoc/tags"
	"github.com/dhamidi/asdoc/asdoc/xref"
)

type builder struct {
	reg   *registry.Registry
	diags *diag.List
}

func newBuilder() *builder {
	return &builder{reg: registry.New(), diags: &diag.List{}}
}

func (b *builder) add(name string, kind asdoc.Kind, raw string, edit ...func(*asdoc.Record)) *asdoc.Record {
	rec := &asdoc.Record{Key: asdoc.DeclarationKey{Kind: kind}, Tags: tags.Parse(raw, name, b.diags)}
	for _, fn := range edit {
		fn(rec)
	}
	b.reg.Register(name, rec, nil, false)
	return rec
}

func (b *builder) assemble(opts Options) *doctree.Node {
	refs := xref.New(b.reg, b.diags)
	return New(b.reg, refs, b.diags, opts).Assemble()
}

func typed(result string) func(*asdoc.Record) {
	return func(r *asdoc.Record) { r.ResultType = result }
}

func findByID(root *doctree.Node, id string) *doctree.Node {
	var found *doctree.Node
	root.Walk(func(n *doctree.Node) bool {
		if found == nil && n.Attr("id") == id {
			found = n
		}
		return found == nil
	})
	return found
}

func valueAccess(t *testing.T, root *doctree.Node, id string) string {
	t.Helper()
	n := findByID(root, id)
	require.NotNil(t, n, "no node %s", id)
	acc := n.Path("apiValueDetail/apiValueDef/apiValueAccess")
	require.NotNil(t, acc)
	return acc.Attr("value")
}

func TestPropertyAccess(t *testing.T) {
	cases := []struct {
		getter, setter bool
		expected       string
	}{
		{true, false, AccessRead},
		{false, true, AccessWrite},
		{true, true, AccessReadWrite},
		{false, false, ""},
	}
	for _, c := range cases {
		if got := PropertyAccess(c.getter, c.setter); got != c.expected {
			t.Errorf("PropertyAccess(%v, %v): expected %q, got %q", c.getter, c.setter, c.expected, got)
		}
	}
}

func TestAccessorMergeIsOrderIndependent(t *testing.T) {
	orders := [][]string{
		{"get", "set"},
		{"set", "get"},
	}
	for _, order := range orders {
		b := newBuilder()
		b.add("pkg:Widget", asdoc.KindClass, "")
		for _, half := range order {
			b.add("pkg:Widget/size/"+half, asdoc.KindFunction, "", typed("int"))
		}
		b.add("pkg:Widget/width/get", asdoc.KindGetter, "", typed("Number"))
		b.add("pkg:Widget/height/set", asdoc.KindSetter, "", func(r *asdoc.Record) {
			r.Params = []asdoc.Param{{Name: "value", Type: "Number"}}
		})

		root := b.assemble(Options{})
		assert.Equal(t, AccessReadWrite, valueAccess(t, root, "pkg:Widget:size"), order)
		assert.Equal(t, AccessRead, valueAccess(t, root, "pkg:Widget:width"), order)
		assert.Equal(t, AccessWrite, valueAccess(t, root, "pkg:Widget:height"), order)

		height := findByID(root, "pkg:Widget:height")
		assert.Equal(t, "Number", height.Path("apiValueDetail/apiValueDef/apiType").Attr("value"))
		assert.NotNil(t, height.Path("apiValueDetail/apiValueDef/apiProperty"))
	}
}

func TestPrivateGetterWithPublicSetterStaysVisible(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Derived", asdoc.KindClass, "")
	b.add("pkg:Derived/y/get", asdoc.KindGetter, "<description>getter</description><private/>", typed("int"))
	b.add("pkg:Derived/y/set", asdoc.KindSetter, "<description>setter</description>")

	root := b.assemble(Options{})
	assert.Equal(t, AccessReadWrite, valueAccess(t, root, "pkg:Derived:y"))
	y := findByID(root, "pkg:Derived:y")
	assert.Equal(t, "setter", y.Path("apiValueDetail/apiDesc").Text)
	assert.Equal(t, "int", y.Path("apiValueDetail/apiValueDef/apiType").Attr("value"))
}

func TestPrivateAccessorPairIsHidden(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Derived", asdoc.KindClass, "")
	b.add("pkg:Derived/y/get", asdoc.KindGetter, "<private/>")
	b.add("pkg:Derived/y/set", asdoc.KindSetter, "<private/>")

	assert.Nil(t, findByID(b.assemble(Options{}), "pkg:Derived:y"))
	assert.NotNil(t, findByID(b.assemble(Options{IncludePrivate: true}), "pkg:Derived:y"))
}

func TestEmptyPackagesAreDropped(t *testing.T) {
	b := newBuilder()
	b.add("empty", asdoc.KindPackage, "<description>nothing here</description>")
	b.add("hidden:Secret", asdoc.KindClass, "", func(r *asdoc.Record) { r.Access = asdoc.AccessInternal })
	b.add("shown:Visible", asdoc.KindClass, "")

	root := b.assemble(Options{})
	var ids []string
	for _, p := range root.ChildrenNamed("apiPackage") {
		ids = append(ids, p.Attr("id"))
	}
	assert.Equal(t, []string{"shown"}, ids)

	index := root.Child("packageList")
	require.Len(t, index.Children, 1)
	assert.Equal(t, "shown", index.Children[0].Attr("name"))
	assert.Equal(t, "shown.xml", index.Children[0].Attr("href"))
	assert.Zero(t, b.diags.Len())
}

func TestClassifierShape(t *testing.T) {
	b := newBuilder()
	b.add("mx.controls", asdoc.KindPackage, "<description>Controls.</description>")
	b.add("mx.controls:Button", asdoc.KindClass,
		"<description>A button. Click it.</description><author>Ann</author><langversion>3.0</langversion><playerversion>Flash 9</playerversion><see>Button#label</see>",
		func(r *asdoc.Record) {
			r.BaseClass = "mx.core:UIComponent"
			r.Interfaces = []string{"mx.core:IButton"}
			r.IsFinal = true
			r.SourceFile = "mx/controls/Button.as"
		})
	b.add("mx.controls:Button/Button", asdoc.KindFunction, "<description>Constructor.</description>")
	b.add("mx.controls:Button/label/get", asdoc.KindGetter, "", typed("String"))

	root := b.assemble(Options{})
	pkg := root.Child("apiPackage")
	require.NotNil(t, pkg)
	assert.Equal(t, "Controls.", pkg.Path("apiDetail/apiDesc").Text)

	cls := pkg.Child("apiClassifier")
	require.NotNil(t, cls)
	assert.Equal(t, "mx.controls:Button", cls.Attr("id"))
	assert.Equal(t, "Button", cls.Child("apiName").Text)
	assert.Equal(t, "A button.", cls.Child("shortdesc").Text)
	assert.Equal(t, "Ann", cls.Path("prolog/author").Text)
	assert.Equal(t, "3.0", cls.Path("prolog/asMetadata/apiVersion/apiLanguage").Attr("version"))
	platform := cls.Path("prolog/asMetadata/apiVersion/apiPlatform")
	assert.Equal(t, "Flash", platform.Attr("name"))
	assert.Equal(t, "9", platform.Attr("version"))

	def := cls.Path("apiClassifierDetail/apiClassifierDef")
	require.NotNil(t, def)
	var parts []string
	for _, c := range def.Children {
		parts = append(parts, c.TagName)
	}
	assert.Equal(t, []string{"apiAccess", "apiFinal", "apiBaseInterface", "apiBaseClassifier", "sourceFile"}, parts)
	assert.Equal(t, "public", def.Child("apiAccess").Attr("value"))
	assert.Equal(t, "A button. Click it.", cls.Path("apiClassifierDetail/apiDesc").Text)

	link := cls.Path("related-links/link")
	require.NotNil(t, link)
	assert.Equal(t, "mx.controls.Button.xml#Button/label", link.Attr("href"))
	assert.Equal(t, "Button.label", link.Child("linktext").Text)

	ctor := cls.Child("apiConstructor")
	require.NotNil(t, ctor)
	assert.Equal(t, "Constructor.", ctor.Path("apiConstructorDetail/apiDesc").Text)
	assert.Nil(t, cls.Child("apiOperation"))
}

func TestOperationShape(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Util", asdoc.KindClass, "")
	b.add("pkg:Util/ArgumentError", asdoc.KindClass, "")
	b.add("pkg:Util/parse", asdoc.KindFunction,
		"<description>Parses.</description><param>text the input</param><param>the radix</param><return>the number</return><throws>ArgumentError if bad</throws>",
		func(r *asdoc.Record) {
			r.Key.IsStatic = true
			r.ResultType = "Number"
			r.Params = []asdoc.Param{{Name: "text", Type: "String"}, {Name: "radix", Type: "int", Default: "10"}, {Name: "rest", Rest: true}}
		})

	root := b.assemble(Options{})
	op := findByID(root, "pkg:Util:static:parse")
	require.NotNil(t, op)
	def := op.Path("apiOperationDetail/apiOperationDef")
	require.NotNil(t, def)
	assert.NotNil(t, def.Child("apiStatic"))
	assert.Equal(t, "Number", def.Path("apiReturn/apiType").Attr("value"))
	assert.Equal(t, "the number", def.Path("apiReturn/apiDesc").Text)

	params := def.ChildrenNamed("apiParam")
	require.Len(t, params, 3)
	assert.Equal(t, "the input", params[0].Child("apiDesc").Text)
	assert.Equal(t, "the radix", params[1].Child("apiDesc").Text)
	assert.Equal(t, "10", params[1].Child("apiData").Text)
	assert.Equal(t, "restParam", params[2].Child("apiType").Attr("value"))
	assert.Nil(t, params[2].Child("apiDesc"))

	exc := def.Child("apiException")
	require.NotNil(t, exc)
	assert.Equal(t, "ArgumentError", exc.Child("apiItemName").Text)
	assert.Equal(t, "pkg:Util/ArgumentError", exc.Child("apiOperationClassifier").Text)
	assert.Equal(t, "if bad", exc.Child("apiDesc").Text)
	assert.Zero(t, b.diags.Count(diag.KindUnresolvedRef))
}

func TestInnerClassAttachedToOuter(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Outer", asdoc.KindClass, "")
	b.add("pkg:Outer/Inner", asdoc.KindClass, "")
	b.add("pkg:Outer/Inner/Deepest", asdoc.KindClass, "")

	root := b.assemble(Options{})
	pkg := root.Child("apiPackage")
	require.Len(t, pkg.ChildrenNamed("apiClassifier"), 1)
	outer := pkg.Child("apiClassifier")
	inner := outer.Child("apiClassifier")
	require.NotNil(t, inner)
	assert.Equal(t, "pkg:Outer/Inner", inner.Attr("id"))
	require.NotNil(t, inner.Child("apiClassifier"))
	assert.Equal(t, "pkg:Outer/Inner/Deepest", inner.Child("apiClassifier").Attr("id"))
}

func TestFreeFunctionsAttachToPackage(t *testing.T) {
	b := newBuilder()
	b.add("flash.utils:getTimer", asdoc.KindFunction, "<description>Time.</description>", typed("int"))
	b.add("flash.utils:VERSION", asdoc.KindField, "", func(r *asdoc.Record) {
		r.VarType = "String"
		r.IsConst = true
		r.DefaultValue = `"1.0"`
	})

	root := b.assemble(Options{})
	pkg := root.Child("apiPackage")
	require.NotNil(t, pkg)
	assert.Equal(t, "flash.utils", pkg.Attr("id"))
	require.NotNil(t, pkg.Child("apiOperation"))
	value := pkg.Child("apiValue")
	require.NotNil(t, value)
	def := value.Path("apiValueDetail/apiValueDef")
	assert.Equal(t, AccessRead, def.Child("apiValueAccess").Attr("value"))
	assert.Equal(t, `"1.0"`, def.Child("apiData").Text)
}

func TestFreeMemberIDsUsePackage(t *testing.T) {
	b := newBuilder()
	b.add("flash.utils:getTimer", asdoc.KindFunction, "", typed("int"))
	b.add("flash.utils:VERSION", asdoc.KindField, "", func(r *asdoc.Record) { r.VarType = "String" })
	b.add("trace", asdoc.KindFunction, "", typed("void"))

	root := b.assemble(Options{})
	assert.NotNil(t, findByID(root, "flash.utils:getTimer"))
	assert.NotNil(t, findByID(root, "flash.utils:VERSION"))
	assert.NotNil(t, findByID(root, TopLevel+":trace"))
	root.Walk(func(n *doctree.Node) bool {
		assert.NotContains(t, n.Attr("id"), "$$")
		return true
	})
}

func TestInvalidMarkupIsDroppedAndReported(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Broken", asdoc.KindClass, "<description><![CDATA[unclosed <b>bold]]></description>")

	root := b.assemble(Options{})
	cls := findByID(root, "pkg:Broken")
	require.NotNil(t, cls)
	assert.Nil(t, cls.Child("shortdesc"))
	assert.Nil(t, cls.Path("apiClassifierDetail/apiDesc"))
	require.Equal(t, 1, b.diags.Count(diag.KindMarkup))
	assert.Equal(t, "pkg:Broken", b.diags.Entries()[0].Owner)
}

func TestVoidElementsAreClosed(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Lines", asdoc.KindClass, "<description>one<br>two</description>")

	cls := findByID(b.assemble(Options{}), "pkg:Lines")
	assert.Equal(t, "one<br/>two", cls.Path("apiClassifierDetail/apiDesc").Text)
}

func TestNamedEntitiesProduceWellFormedXML(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Fast", asdoc.KindClass, "<description>Fast&nbsp;path &copy; 2010.</description>")

	root := b.assemble(Options{})
	assert.Zero(t, b.diags.Len())
	cls := findByID(root, "pkg:Fast")
	require.NotNil(t, cls)
	assert.Equal(t, "Fast&#160;path &#169; 2010.", cls.Path("apiClassifierDetail/apiDesc").Text)

	var buf bytes.Buffer
	require.NoError(t, doctree.NewXMLEncoder(&buf).Encode(root))
	dec := xml.NewDecoder(&buf)
	dec.Strict = true
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
}

func TestClassMetadataAndEvents(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Panel", asdoc.KindClass, "", func(r *asdoc.Record) {
		r.Metadata = []*asdoc.Metadata{
			{Name: asdoc.MetaEvent, Attributes: []asdoc.Attribute{{Key: "name", Value: "open"}, {Key: "type", Value: "flash.events.Event"}},
				Tags: tags.Parse("<description>Opened.</description><eventType>flash.events.Event.OPEN</eventType>", "", nil)},
			{Name: asdoc.MetaEvent, Attributes: []asdoc.Attribute{{Key: "name", Value: "close"}}},
			{Name: asdoc.MetaStyle, Attributes: []asdoc.Attribute{{Key: "name", Value: "color"}, {Key: "type", Value: "uint"}}},
			{Name: asdoc.MetaStyle, Attributes: []asdoc.Attribute{{Key: "name", Value: "skin"}}},
			{Name: asdoc.MetaDefaultProperty, Attributes: []asdoc.Attribute{{Value: "children"}}},
			{Name: asdoc.MetaExclude, Attributes: []asdoc.Attribute{{Key: "name", Value: "close"}, {Key: "kind", Value: "event"}}},
			{Name: asdoc.MetaExclude, Attributes: []asdoc.Attribute{{Key: "name", Value: "skin"}, {Key: "kind", Value: "style"}}},
		}
	})
	b.reg.CollectExclusions()

	cls := findByID(b.assemble(Options{}), "pkg:Panel")
	require.NotNil(t, cls)

	styles := cls.Path("prolog/asMetadata/styles")
	require.NotNil(t, styles)
	require.Len(t, styles.Children, 1)
	assert.Equal(t, "color", styles.Children[0].Attr("name"))
	assert.Equal(t, "uint", styles.Children[0].Attr("type"))
	assert.Equal(t, "children", cls.Path("prolog/asMetadata/DefaultProperty").Attr("name"))

	events := cls.ChildrenNamed("adobeApiEvent")
	require.Len(t, events, 1)
	assert.Equal(t, "open", events[0].Child("apiName").Text)
	def := events[0].Path("adobeApiEventDetail/adobeApiEventDef")
	assert.Equal(t, "flash.events.Event", def.Child("adobeApiEventClassifier").Attr("value"))
	assert.Equal(t, "flash.events.Event.OPEN", def.Child("apiEventType").Text)
}

func TestIncludeExample(t *testing.T) {
	b := newBuilder()
	b.add("pkg:Demo", asdoc.KindClass, "<includeExample>examples/Demo.as</includeExample><includeExample>examples/Broken.as -noswf</includeExample>")

	root := b.assemble(Options{Examples: MapExamples{
		"examples/Demo.as":   "/* license */\nvar x = 1;",
		"examples/Broken.as": "/* never closed\nvar y;",
	}})
	cls := findByID(root, "pkg:Demo")
	examples := cls.Path("apiClassifierDetail").ChildrenNamed("example")
	require.Len(t, examples, 2)
	assert.Equal(t, "var x = 1;", examples[0].Child("codeblock").Text)
	assert.Equal(t, "", examples[1].Child("codeblock").Text)
	assert.Equal(t, 1, b.diags.Count(diag.KindMalformedTag))
}

func TestStripHeaderComment(t *testing.T) {
	cases := []struct {
		in, out string
		ok      bool
	}{
		{"var x;", "var x;", true},
		{"  /* header */\n\nvar x;", "var x;", true},
		{"/* header", "", false},
		{"var x; /* trailing */", "var x; /* trailing */", true},
	}
	for _, c := range cases {
		out, ok := StripHeaderComment(c.in)
		if out != c.out || ok != c.ok {
			t.Errorf("StripHeaderComment(%q): expected (%q, %v), got (%q, %v)", c.in, c.out, c.ok, out, ok)
		}
	}
}

func TestShortDesc(t *testing.T) {
	cases := []struct{ in, out string }{
		{"One. Two.", "One."},
		{"No period", "No period"},
		{"Version 1.5 is out. More.", "Version 1.5 is out."},
		{"<b>Bold. Still bold</b> after.", "<b>Bold. Still bold</b> after."},
	}
	for _, c := range cases {
		if got := shortDesc(c.in); got != c.out {
			t.Errorf("shortDesc(%q): expected %q, got %q", c.in, c.out, got)
		}
	}
}

func TestParamDescriptions(t *testing.T) {
	got := paramDescriptions([]string{"a", "b", "c"}, []string{"b second", "first positional", "a named first"})
	assert.Equal(t, []string{"named first", "second", "first positional"}, got)
}
