// Package inherit resolves documentation that a declaration takes from
// elsewhere: @inheritDoc from accessor counterparts and ancestors, @copy
// from an arbitrary target, [Exclude] annotations inherited along the base
// class chain, and [DefaultProperty] inherited from base classes that may
// lie outside the documented set.
package inherit

import (
	"slices"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/registry"
	"github.com/dhamidi/asdoc/asdoc/tags"
	"github.com/dhamidi/asdoc/asdoc/xref"
)

var log = commonlog.GetLogger("asdoc.inherit")

// DefaultRootClass ends every base class walk.
const DefaultRootClass = "Object"

// Inherited is documentation taken from another declaration.
type Inherited struct {
	Description string
	Params      []string
	Return      string
	// From is the class the documentation was found in.
	From string
}

type Resolver struct {
	reg   *registry.Registry
	refs  *xref.Resolver
	diags *diag.List

	// RootClass stops base class walks. Defaults to DefaultRootClass.
	RootClass string
}

func New(reg *registry.Registry, refs *xref.Resolver, diags *diag.List) *Resolver {
	return &Resolver{reg: reg, refs: refs, diags: diags, RootClass: DefaultRootClass}
}

// ResolveInheritDoc finds the documentation the record under key in class
// inherits. An accessor first consults its counterpart in the same class;
// then the class's ancestors are searched in their stored order, and the
// first non-private entry with a description wins. Missing ancestors are
// skipped.
func (r *Resolver) ResolveInheritDoc(class string, key asdoc.DeclarationKey) (Inherited, bool) {
	table := r.reg.Class(class)
	if table == nil {
		return Inherited{}, false
	}
	own := table.Get(key)

	if key.Kind.IsAccessor() {
		if src := table.Get(key.Counterpart()); usable(src) {
			return inheritedFrom(src, class), true
		}
	}

	for _, ancestor := range table.Ancestors {
		at := r.reg.Class(ancestor)
		if at == nil {
			log.Debugf("%s: ancestor %s not registered", class, ancestor)
			continue
		}
		var src *asdoc.Record
		if key.Kind.IsClassifier() {
			src = at.Class()
		} else {
			src = at.Get(key)
		}
		if !usable(src) {
			continue
		}
		if own != nil && !signaturesMatch(own, src) {
			r.diags.Errorf(diag.KindSignatureMismatch, own.QualifiedName,
				"@inheritDoc source %s has a different signature", src.QualifiedName)
			continue
		}
		return inheritedFrom(src, ancestor), true
	}
	return Inherited{}, false
}

func usable(rec *asdoc.Record) bool {
	return rec != nil && !rec.IsPrivate() && rec.Description() != ""
}

func inheritedFrom(src *asdoc.Record, class string) Inherited {
	return Inherited{
		Description: src.Description(),
		Params:      src.Tags.List(tags.Param),
		Return:      src.Tags.Single(tags.Return),
		From:        class,
	}
}

// signaturesMatch compares parameter counts and types of two functions.
// Records of other kinds always match.
func signaturesMatch(a, b *asdoc.Record) bool {
	if a.Key.Kind != asdoc.KindFunction || b.Key.Kind != asdoc.KindFunction {
		return true
	}
	return slices.Equal(a.ParamTypes(), b.ParamTypes())
}

type pending struct {
	rec *asdoc.Record
	doc Inherited
}

// ApplyInheritDoc fills every @inheritDoc record that lacks a description,
// @param or @return with the inherited values. All sources are resolved
// before any record changes, so the result does not depend on the order
// classes are visited in.
func (r *Resolver) ApplyInheritDoc() int {
	var todo []pending
	for _, table := range r.reg.Classes() {
		for _, rec := range table.Records() {
			if !rec.Tags.Flag(tags.InheritDoc) {
				continue
			}
			doc, ok := r.ResolveInheritDoc(table.Name, rec.Key)
			if !ok {
				log.Debugf("%s: nothing to inherit for %s", table.Name, rec.Key)
				continue
			}
			todo = append(todo, pending{rec: rec, doc: doc})
		}
	}
	for _, p := range todo {
		fill(p.rec, p.doc)
	}
	log.Infof("applied @inheritDoc to %d declarations", len(todo))
	return len(todo)
}

// fill copies doc into the parts of rec's tags that are empty.
func fill(rec *asdoc.Record, doc Inherited) {
	ts := rec.Tags.Clone()
	if ts.Description == "" {
		ts.Description = doc.Description
	}
	if len(ts.List(tags.Param)) == 0 && len(doc.Params) > 0 {
		ts.Set(tags.Param, tags.Value{Shape: tags.ShapeList, Items: append([]string(nil), doc.Params...)})
	}
	if !ts.Has(tags.Return) && doc.Return != "" {
		ts.Set(tags.Return, tags.Value{Shape: tags.ShapeSingle, Text: doc.Return})
	}
	rec.Tags = ts
}
