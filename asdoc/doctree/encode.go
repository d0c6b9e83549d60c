package doctree

import (
	"encoding"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encoder writes a whole document tree.
type Encoder interface {
	encoding.TextMarshaler
	Encode(root *Node) error
}

// Formats lists the names accepted by NewEncoder.
var Formats = []string{"xml", "json", "yaml"}

// NewEncoder returns the encoder for a format name.
func NewEncoder(format string, w io.Writer) (Encoder, error) {
	switch strings.ToLower(format) {
	case "", "xml":
		return NewXMLEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml", "yml":
		return NewYAMLEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

type XMLEncoder struct {
	w    io.Writer
	root *Node
}

func NewXMLEncoder(w io.Writer) *XMLEncoder {
	return &XMLEncoder{w: w}
}

func (e *XMLEncoder) Encode(root *Node) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *XMLEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	if e.root != nil {
		if err := writeXML(&sb, e.root, 0); err != nil {
			return nil, err
		}
	}
	return []byte(sb.String()), nil
}

func writeXML(sb *strings.Builder, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(n.TagName)
	for _, k := range n.AttributeKeys() {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		if err := xml.EscapeText(sb, []byte(n.Attributes[k])); err != nil {
			return fmt.Errorf("encode attribute %s of %s: %w", k, n.TagName, err)
		}
		sb.WriteByte('"')
	}

	if n.Text == "" && len(n.Children) == 0 {
		sb.WriteString("/>\n")
		return nil
	}
	sb.WriteByte('>')

	switch {
	case n.Markup:
		sb.WriteString(n.Text)
	case n.Text != "":
		if err := xml.EscapeText(sb, []byte(n.Text)); err != nil {
			return fmt.Errorf("encode text of %s: %w", n.TagName, err)
		}
	}
	if len(n.Children) > 0 {
		sb.WriteByte('\n')
		for _, c := range n.Children {
			if err := writeXML(sb, c, depth+1); err != nil {
				return err
			}
		}
		sb.WriteString(indent)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName)
	sb.WriteString(">\n")
	return nil
}

// wireNode is the JSON and YAML form of a Node. Both libraries emit map
// keys in sorted order.
type wireNode struct {
	Tag        string            `json:"tag" yaml:"tag"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Text       string            `json:"text,omitempty" yaml:"text,omitempty"`
	Markup     bool              `json:"markup,omitempty" yaml:"markup,omitempty"`
	Children   []*wireNode       `json:"children,omitempty" yaml:"children,omitempty"`
}

func toWire(n *Node) *wireNode {
	w := &wireNode{Tag: n.TagName, Text: n.Text, Markup: n.Markup}
	if len(n.Attributes) > 0 {
		w.Attributes = n.Attributes
	}
	for _, c := range n.Children {
		w.Children = append(w.Children, toWire(c))
	}
	return w
}

func fromWire(w *wireNode) *Node {
	n := &Node{TagName: w.Tag, Text: w.Text, Markup: w.Markup}
	if len(w.Attributes) > 0 {
		n.Attributes = w.Attributes
	}
	for _, c := range w.Children {
		n.Children = append(n.Children, fromWire(c))
	}
	return n
}

type JSONEncoder struct {
	w    io.Writer
	root *Node
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(root *Node) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	if e.root == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(toWire(e.root), "", "  ")
}

type YAMLEncoder struct {
	w    io.Writer
	root *Node
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(root *Node) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	if e.root == nil {
		return []byte("null\n"), nil
	}
	return yaml.Marshal(toWire(e.root))
}

// Decode reads a tree written by the JSON or YAML encoder. YAML is a
// superset of JSON, so one decoder serves both.
func Decode(r io.Reader) (*Node, error) {
	var w wireNode
	if err := yaml.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode document tree: %w", err)
	}
	return fromWire(&w), nil
}
