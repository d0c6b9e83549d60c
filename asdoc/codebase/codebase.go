// Package codebase keeps a built documentation set in memory and answers
// lookups against it for the language server.
package codebase

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/docset"
	"github.com/dhamidi/asdoc/asdoc/doctree"
)

var log = commonlog.GetLogger("asdoc.codebase")

// EntryKind is the tree element an entry was indexed from.
type EntryKind string

const (
	EntryPackage     EntryKind = "apiPackage"
	EntryClassifier  EntryKind = "apiClassifier"
	EntryConstructor EntryKind = "apiConstructor"
	EntryOperation   EntryKind = "apiOperation"
	EntryValue       EntryKind = "apiValue"
	EntryEvent       EntryKind = "adobeApiEvent"
)

var indexed = map[string]EntryKind{
	string(EntryPackage):     EntryPackage,
	string(EntryClassifier):  EntryClassifier,
	string(EntryConstructor): EntryConstructor,
	string(EntryOperation):   EntryOperation,
	string(EntryValue):       EntryValue,
	string(EntryEvent):       EntryEvent,
}

// Entry is one documented declaration in the tree.
type Entry struct {
	ID        string
	Name      string
	Kind      EntryKind
	Container string
	Node      *doctree.Node
}

// IsInterface reports whether a classifier entry is an interface.
func (e *Entry) IsInterface() bool {
	return e.Kind == EntryClassifier && e.Node.Path("apiClassifierDetail/apiClassifierDef/apiInterface") != nil
}

// IsProperty reports whether a value entry is an accessor pair.
func (e *Entry) IsProperty() bool {
	return e.Kind == EntryValue && e.Node.Path("apiValueDetail/apiValueDef/apiProperty") != nil
}

type Codebase struct {
	mu    sync.RWMutex
	input string
	opts  docset.Options

	tree    *doctree.Node
	diags   []diag.Entry
	entries map[string]*Entry
	byName  map[string][]*Entry
	ids     []string
	err     error
}

// New returns an empty codebase that builds from the descriptor file at
// input.
func New(input string, opts docset.Options) *Codebase {
	return &Codebase{
		input:   input,
		opts:    opts,
		entries: make(map[string]*Entry),
		byName:  make(map[string][]*Entry),
	}
}

func (c *Codebase) Input() string {
	return c.input
}

// Rebuild reruns the whole batch from the descriptor file. On failure the
// previous index is kept and the error is remembered.
func (c *Codebase) Rebuild(ctx context.Context) error {
	descs, err := docset.LoadDescriptorFile(c.input)
	if err == nil {
		var res *docset.Result
		res, err = docset.Build(ctx, descs, c.opts)
		if res != nil {
			c.Update(res)
		}
	}
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("rebuild %s: %w", c.input, err)
	}
	return nil
}

// Err returns the error of the last rebuild.
func (c *Codebase) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Update replaces the index with a built result.
func (c *Codebase) Update(res *docset.Result) {
	entries := make(map[string]*Entry)
	byName := make(map[string][]*Entry)
	index(res.Tree, "", entries, byName)

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, list := range byName {
		sort.Slice(list, func(i, j int) bool { return entryLess(list[i], list[j]) })
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree = res.Tree
	c.diags = res.Diagnostics.Entries()
	c.entries = entries
	c.byName = byName
	c.ids = ids
	log.Infof("indexed %d declarations", len(ids))
}

func index(n *doctree.Node, container string, entries map[string]*Entry, byName map[string][]*Entry) {
	if n == nil {
		return
	}
	if kind, ok := indexed[n.TagName]; ok {
		if id := n.Attr("id"); id != "" {
			e := &Entry{ID: id, Name: textOr(n.Child("apiName"), id), Kind: kind, Container: container, Node: n}
			entries[id] = e
			byName[e.Name] = append(byName[e.Name], e)
			container = id
		}
	}
	for _, child := range n.Children {
		index(child, container, entries, byName)
	}
}

// entryLess orders classifiers before members, then by id.
func entryLess(a, b *Entry) bool {
	ra, rb := rank(a.Kind), rank(b.Kind)
	if ra != rb {
		return ra < rb
	}
	return a.ID < b.ID
}

func rank(k EntryKind) int {
	switch k {
	case EntryClassifier:
		return 0
	case EntryPackage:
		return 1
	}
	return 2
}

// Tree returns the last built tree.
func (c *Codebase) Tree() *doctree.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree
}

func (c *Codebase) Diagnostics() []diag.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.diags
}

func (c *Codebase) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// Lookup returns the entry with the given tree id.
func (c *Codebase) Lookup(id string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

// Find returns every entry whose simple name is name, classifiers first.
func (c *Codebase) Find(name string) []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Entry(nil), c.byName[name]...)
}

// Search returns up to limit entries whose id contains query, ignoring
// case. A limit of zero means no limit.
func (c *Codebase) Search(query string, limit int) []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q := strings.ToLower(query)
	var out []*Entry
	for _, id := range c.ids {
		if q != "" && !strings.Contains(strings.ToLower(id), q) {
			continue
		}
		out = append(out, c.entries[id])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

var markupTag = regexp.MustCompile(`<[^>]*>`)

// plainText strips markup from a description for display in an editor.
func plainText(markup string) string {
	s := markupTag.ReplaceAllString(markup, "")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

// Signature renders a one-line declaration for an entry.
func Signature(e *Entry) string {
	switch e.Kind {
	case EntryPackage:
		return "package " + e.Name
	case EntryClassifier:
		def := e.Node.Path("apiClassifierDetail/apiClassifierDef")
		word := "class"
		if e.IsInterface() {
			word = "interface"
		}
		s := word + " " + e.Name
		if base := textOr(def.Path("apiBaseClassifier"), ""); base != "" {
			s += " extends " + base
		}
		return s
	case EntryOperation, EntryConstructor:
		def := e.Node.Path("apiOperationDetail/apiOperationDef")
		if e.Kind == EntryConstructor {
			def = e.Node.Path("apiConstructorDetail/apiConstructorDef")
		}
		var params []string
		for _, p := range def.ChildrenNamed("apiParam") {
			params = append(params, textOr(p.Path("apiItemName"), "")+":"+valueOf(p.Path("apiType")))
		}
		s := "function " + e.Name + "(" + strings.Join(params, ", ") + ")"
		if e.Kind == EntryOperation {
			s += ":" + valueOf(def.Path("apiReturn/apiType"))
		}
		return s
	case EntryValue:
		def := e.Node.Path("apiValueDetail/apiValueDef")
		word := "var"
		if e.IsProperty() {
			word = "property"
		} else if valueOf(def.Path("apiValueAccess")) == "read" {
			word = "const"
		}
		return word + " " + e.Name + ":" + valueOf(def.Path("apiType"))
	case EntryEvent:
		s := "[Event(name=\"" + e.Name + "\""
		if typ := valueOf(e.Node.Path("adobeApiEventDetail/adobeApiEventDef/adobeApiEventClassifier")); typ != "" {
			s += ", type=\"" + typ + "\""
		}
		return s + ")]"
	}
	return e.Name
}

// Description returns the plain-text description of an entry.
func Description(e *Entry) string {
	for _, detail := range []string{"apiClassifierDetail", "apiOperationDetail", "apiConstructorDetail", "apiValueDetail", "adobeApiEventDetail", "apiDetail"} {
		if d := e.Node.Path(detail + "/apiDesc"); d != nil {
			return plainText(d.Text)
		}
	}
	return ""
}

// Hover renders the hover documentation of an entry as markdown.
func Hover(e *Entry) string {
	var sb strings.Builder
	sb.WriteString("```actionscript\n")
	sb.WriteString(Signature(e))
	sb.WriteString("\n```\n")
	if e.Container != "" {
		sb.WriteString("\n*" + e.Container + "*\n")
	}
	if desc := Description(e); desc != "" {
		sb.WriteString("\n" + desc + "\n")
	}
	return sb.String()
}

func textOr(n *doctree.Node, fallback string) string {
	if n == nil || n.Text == "" {
		return fallback
	}
	return n.Text
}

func valueOf(n *doctree.Node) string {
	if n == nil {
		return ""
	}
	return n.Attr("value")
}
