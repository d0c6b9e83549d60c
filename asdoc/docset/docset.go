// Package docset runs a whole documentation batch: descriptors in, document
// tree and diagnostics out.
//
// Tag parsing is a pure function of each raw comment and runs in parallel.
// Registration is sequential in descriptor order, because that order
// breaks ties between declarations with the same key.
package docset

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/assemble"
	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/doctree"
	"github.com/dhamidi/asdoc/asdoc/inherit"
	"github.com/dhamidi/asdoc/asdoc/registry"
	"github.com/dhamidi/asdoc/asdoc/tags"
	"github.com/dhamidi/asdoc/asdoc/xref"
)

var log = commonlog.GetLogger("asdoc.docset")

// ErrDiagnostics is returned in strict mode when the batch produced
// diagnostics. The result is still complete.
var ErrDiagnostics = errors.New("documentation has diagnostics")

type Options struct {
	// Strict fails the batch on any diagnostic, StrictErrors only on
	// diagnostics of error severity.
	Strict          bool
	StrictErrors    bool
	IncludePrivate  bool
	IncludeInternal bool
	// Parallelism bounds concurrent tag parsing. Zero means GOMAXPROCS.
	Parallelism int
	// Exclude holds gitignore-style patterns matched against class paths
	// such as "mx/controls/Button".
	Exclude []string
	// RootClass ends base class walks. Defaults to "Object".
	RootClass string
	Examples  assemble.ExampleSource
	// Symbols describes classes outside the documented set.
	Symbols inherit.SymbolTable
}

type Result struct {
	Tree        *doctree.Node
	Diagnostics *diag.List
	Registry    *registry.Registry
}

// parsed is the per-descriptor output of the parallel phase.
type parsed struct {
	tags  *tags.TagSet
	meta  []*asdoc.Metadata
	diags diag.List
}

// Build runs the batch. Non-fatal problems are collected in the result's
// diagnostics; an error is returned only on cancellation or, in strict
// mode, wrapping ErrDiagnostics.
func Build(ctx context.Context, descs []asdoc.Descriptor, opts Options) (*Result, error) {
	results, err := parseAll(ctx, descs, opts.Parallelism)
	if err != nil {
		return nil, err
	}

	diags := &diag.List{}
	for i := range results {
		diags.Append(&results[i].diags)
	}

	reg := registry.New()
	for i, d := range descs {
		reg.Register(d.QualifiedName, newRecord(d, &results[i]), ancestorsOf(d), d.Excluded)
	}
	log.Infof("registered %d declarations in %d classes", reg.Len(), len(reg.Classes()))

	reg.CollectExclusions()
	if len(opts.Exclude) > 0 {
		n := reg.MarkExcluded(excludeMatcher(opts.Exclude))
		log.Infof("excluded %d classes by pattern", n)
	}

	refs := xref.New(reg, diags)
	res := inherit.New(reg, refs, diags)
	if opts.RootClass != "" {
		res.RootClass = opts.RootClass
	}
	res.PropagateAllExclusions()
	res.MergeAllDefaultProperties(inherit.RegistrySymbols{Registry: reg, External: opts.Symbols})
	res.ApplyInheritDoc()
	res.ApplyCopy()

	tree := assemble.New(reg, refs, diags, assemble.Options{
		IncludePrivate:  opts.IncludePrivate,
		IncludeInternal: opts.IncludeInternal,
		Examples:        opts.Examples,
	}).Assemble()

	result := &Result{Tree: tree, Diagnostics: diags, Registry: reg}
	switch {
	case opts.Strict && diags.Len() > 0:
		return result, fmt.Errorf("%w: %d entries", ErrDiagnostics, diags.Len())
	case opts.StrictErrors && diags.HasErrors():
		return result, fmt.Errorf("%w: errors among %d entries", ErrDiagnostics, diags.Len())
	}
	return result, nil
}

func parseAll(ctx context.Context, descs []asdoc.Descriptor, parallelism int) ([]parsed, error) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	results := make([]parsed, len(descs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range descs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parseOne(&descs[i], &results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse tags: %w", err)
	}
	return results, nil
}

func parseOne(d *asdoc.Descriptor, out *parsed) {
	out.tags = tags.Parse(d.RawTags, d.QualifiedName, &out.diags)
	for _, md := range d.Symbol.Metadata {
		m := &asdoc.Metadata{Name: md.Name, Attributes: md.Attributes}
		if md.RawTags != "" {
			m.Tags = tags.Parse(md.RawTags, d.QualifiedName+"["+md.Name+"]", &out.diags)
		}
		out.meta = append(out.meta, m)
	}
}

func newRecord(d asdoc.Descriptor, p *parsed) *asdoc.Record {
	s := d.Symbol
	return &asdoc.Record{
		Key:            asdoc.DeclarationKey{Kind: d.Kind, IsStatic: s.IsStatic},
		Tags:           p.tags,
		Access:         s.Access,
		CommentID:      s.CommentID,
		BaseClass:      s.BaseClass,
		Interfaces:     s.Interfaces,
		BaseInterfaces: s.BaseInterfaces,
		IsFinal:        s.IsFinal,
		IsDynamic:      s.IsDynamic,
		SourceFile:     s.SourceFile,
		Params:         s.Params,
		ResultType:     s.ResultType,
		VarType:        s.VarType,
		IsConst:        s.IsConst,
		DefaultValue:   s.DefaultValue,
		Metadata:       p.meta,
	}
}

// ancestorsOf returns the descriptor's ancestor set, or for classifiers
// without one, the declared base class and interfaces.
func ancestorsOf(d asdoc.Descriptor) []string {
	if len(d.Ancestors) > 0 || !d.Kind.IsClassifier() {
		return d.Ancestors
	}
	var out []string
	if d.Symbol.BaseClass != "" {
		out = append(out, d.Symbol.BaseClass)
	}
	out = append(out, d.Symbol.Interfaces...)
	out = append(out, d.Symbol.BaseInterfaces...)
	return out
}

// ClassPath renders a class table as a slash-separated path for pattern
// matching: "mx.controls:Button/Inner" becomes "mx/controls/Button/Inner"
// and a package's global scope becomes "<package path>/package".
func ClassPath(t *registry.ClassTable) string {
	pkg := strings.ReplaceAll(t.Info.Package, ".", "/")
	var name string
	if t.IsGlobalScope() {
		name = "package"
	} else {
		name = strings.Join(t.Info.ClassNames, "/")
	}
	if pkg == "" {
		return name
	}
	return pkg + "/" + name
}

func excludeMatcher(patterns []string) func(*registry.ClassTable) bool {
	gi := ignore.CompileIgnoreLines(patterns...)
	return func(t *registry.ClassTable) bool {
		return gi.MatchesPath(ClassPath(t))
	}
}
