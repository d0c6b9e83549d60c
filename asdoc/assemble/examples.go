package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/doctree"
	"github.com/dhamidi/asdoc/asdoc/qname"
	"github.com/dhamidi/asdoc/asdoc/tags"
)

// ExampleSource loads the files named by @includeExample.
type ExampleSource interface {
	// ReadExample returns the content of the example file name referenced
	// from a declaration of class.
	ReadExample(class, name string) (string, error)
}

// DirExamples reads examples below Root. A name is tried relative to Root
// first and then relative to the directory of the class's package.
type DirExamples struct {
	Root string
}

func (d DirExamples) ReadExample(class, name string) (string, error) {
	candidates := []string{filepath.Join(d.Root, filepath.FromSlash(name))}
	if pkg := qname.PackageOf(class); pkg != "" {
		dir := strings.ReplaceAll(pkg, ".", string(filepath.Separator))
		candidates = append(candidates, filepath.Join(d.Root, dir, filepath.FromSlash(name)))
	}
	var firstErr error
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", fmt.Errorf("read example %s: %w", name, firstErr)
}

// MapExamples serves examples from memory, keyed by name.
type MapExamples map[string]string

func (m MapExamples) ReadExample(class, name string) (string, error) {
	content, ok := m[name]
	if !ok {
		return "", fmt.Errorf("read example %s: %w", name, os.ErrNotExist)
	}
	return content, nil
}

// StripHeaderComment removes a leading /* ... */ block, typically a
// license header, from example source. It reports false when the block is
// never closed.
func StripHeaderComment(src string) (string, bool) {
	trimmed := strings.TrimLeft(src, " \t\r\n")
	if !strings.HasPrefix(trimmed, "/*") {
		return src, true
	}
	end := strings.Index(trimmed[2:], "*/")
	if end < 0 {
		return "", false
	}
	return strings.TrimLeft(trimmed[2+end+2:], "\r\n"), true
}

// examples builds the example nodes of a declaration: @example bodies as
// markup, then @includeExample files as code blocks.
func (a *Assembler) examples(owner string, ts *tags.TagSet) []*doctree.Node {
	var out []*doctree.Node
	for _, body := range ts.List(tags.Example) {
		if n := a.markupElem("example", owner, "@example", body); n != nil {
			out = append(out, n)
		}
	}
	if a.opts.Examples == nil {
		return out
	}
	class := owner
	if i := strings.IndexByte(owner, '#'); i >= 0 {
		class = owner[:i]
	}
	for _, body := range ts.List(tags.IncludeExample) {
		name, _ := firstWord(body)
		if name == "" {
			continue
		}
		src, err := a.opts.Examples.ReadExample(class, name)
		if err != nil {
			a.diags.Warnf(diag.KindUnresolvedRef, owner, "@includeExample: %v", err)
			continue
		}
		code, ok := StripHeaderComment(src)
		if !ok {
			a.diags.Errorf(diag.KindMalformedTag, owner, "@includeExample %s: unclosed comment block", name)
		}
		out = append(out, doctree.New("example").Set("src", name).Append(doctree.Elem("codeblock", code)))
	}
	return out
}
