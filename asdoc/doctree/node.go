// Package doctree is the assembled documentation tree handed to renderers,
// and its XML, JSON and YAML encodings.
package doctree

import (
	"sort"
	"strings"
)

// Node is one element of the document tree. Text is either plain text or,
// when Markup is set, validated markup embedded as-is.
type Node struct {
	TagName    string
	Attributes map[string]string
	Children   []*Node
	Text       string
	Markup     bool
}

func New(tag string) *Node {
	return &Node{TagName: tag}
}

// Elem returns a node holding plain text.
func Elem(tag, text string) *Node {
	return &Node{TagName: tag, Text: text}
}

// MarkupElem returns a node holding markup.
func MarkupElem(tag, markup string) *Node {
	return &Node{TagName: tag, Text: markup, Markup: true}
}

// Set sets an attribute and returns n.
func (n *Node) Set(key, value string) *Node {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[key] = value
	return n
}

// Attr returns the value of an attribute, or "".
func (n *Node) Attr(key string) string {
	return n.Attributes[key]
}

// Append adds children, skipping nil ones, and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// AppendText adds a plain-text child when text is not empty.
func (n *Node) AppendText(tag, text string) *Node {
	if text != "" {
		n.Append(Elem(tag, text))
	}
	return n
}

// Child returns the first child with the given tag, or nil. A nil node
// has no children.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.TagName == tag {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all children with the given tag.
func (n *Node) ChildrenNamed(tag string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.TagName == tag {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a slash-separated chain of child tags, e.g.
// "apiClassifierDetail/apiClassifierDef/apiAccess".
func (n *Node) Path(path string) *Node {
	cur := n
	for _, tag := range strings.Split(path, "/") {
		if cur = cur.Child(tag); cur == nil {
			return nil
		}
	}
	return cur
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := &Node{TagName: n.TagName, Text: n.Text, Markup: n.Markup}
	if n.Attributes != nil {
		c.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			c.Attributes[k] = v
		}
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// AttributeKeys returns the attribute names in sorted order.
func (n *Node) AttributeKeys() []string {
	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
