package inherit

import (
	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/tags"
)

// ResolveCopy locates the declaration named by rec's @copy tag. rec is
// declared in class.
func (r *Resolver) ResolveCopy(class string, rec *asdoc.Record) (*asdoc.Record, bool) {
	target := rec.Tags.Single(tags.Copy)
	if target == "" {
		return nil, false
	}
	loc, ok := r.refs.Locate(target, class)
	if !ok {
		r.diags.Warnf(diag.KindUnresolvedRef, rec.QualifiedName, "unresolved @copy target %q", target)
		return nil, false
	}

	var src *asdoc.Record
	if loc.Member == "" {
		if t := r.reg.Class(loc.Class); t != nil {
			src = t.Class()
		}
	} else {
		candidates := r.refs.Records(loc)
		for _, c := range candidates {
			if c.Key.Kind == rec.Key.Kind {
				src = c
				break
			}
		}
		if src == nil && len(candidates) > 0 {
			src = candidates[0]
		}
	}
	if src == nil || src == rec {
		r.diags.Warnf(diag.KindUnresolvedRef, rec.QualifiedName, "@copy target %q has no documentation", target)
		return nil, false
	}

	if !signaturesMatch(rec, src) {
		r.diags.Errorf(diag.KindSignatureMismatch, rec.QualifiedName,
			"@copy source %s takes (%v), target takes (%v)", src.QualifiedName, src.ParamTypes(), rec.ParamTypes())
		return nil, false
	}
	return src, true
}

// ApplyCopy fills every @copy record from its source. Sources are resolved
// before any record changes.
func (r *Resolver) ApplyCopy() int {
	var todo []pending
	for _, table := range r.reg.Classes() {
		for _, rec := range table.Records() {
			if !rec.Tags.Has(tags.Copy) {
				continue
			}
			src, ok := r.ResolveCopy(table.Name, rec)
			if !ok {
				continue
			}
			todo = append(todo, pending{rec: rec, doc: inheritedFrom(src, table.Name)})
		}
	}
	for _, p := range todo {
		fill(p.rec, p.doc)
	}
	return len(todo)
}
