package registry

import (
	"sort"
	"strings"

	"github.com/dhamidi/asdoc/asdoc"
)

// ExcludeKind is the kind of member an [Exclude] annotation hides.
type ExcludeKind string

const (
	ExcludeProperty ExcludeKind = "property"
	ExcludeMethod   ExcludeKind = "method"
	ExcludeEvent    ExcludeKind = "event"
	ExcludeStyle    ExcludeKind = "style"
	ExcludeEffect   ExcludeKind = "effect"
)

// Exclusion names one hidden member of one class.
type Exclusion struct {
	Class string
	Kind  ExcludeKind
	Name  string
}

// ExcludeKindOf maps a declaration kind to the exclusion kind that hides it.
func ExcludeKindOf(k asdoc.Kind) (ExcludeKind, bool) {
	switch k {
	case asdoc.KindGetter, asdoc.KindSetter, asdoc.KindField:
		return ExcludeProperty, true
	case asdoc.KindFunction:
		return ExcludeMethod, true
	}
	return "", false
}

// Exclude hides the named member of class.
func (r *Registry) Exclude(class string, kind ExcludeKind, name string) {
	r.exclusions[Exclusion{Class: class, Kind: kind, Name: name}] = struct{}{}
}

// IsExcluded reports whether the named member of class is hidden.
func (r *Registry) IsExcluded(class string, kind ExcludeKind, name string) bool {
	_, ok := r.exclusions[Exclusion{Class: class, Kind: kind, Name: name}]
	return ok
}

// IsRecordExcluded reports whether rec, declared in class, is hidden either
// by its own exclusion flag or by an exclusion entry.
func (r *Registry) IsRecordExcluded(class string, rec *asdoc.Record) bool {
	if rec.Excluded {
		return true
	}
	kind, ok := ExcludeKindOf(rec.Key.Kind)
	if !ok {
		return false
	}
	return r.IsExcluded(class, kind, rec.Key.Name)
}

// ExcludedNames returns the names hidden in class for kind, sorted.
func (r *Registry) ExcludedNames(class string, kind ExcludeKind) []string {
	var names []string
	for e := range r.exclusions {
		if e.Class == class && e.Kind == kind {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

// CollectExclusions records the [Exclude] annotations carried by every
// class record. Class-level [ExcludeClass] marks the whole table excluded.
func (r *Registry) CollectExclusions() {
	for _, t := range r.classes {
		rec := t.Class()
		if rec == nil {
			continue
		}
		if rec.HasMetadata(asdoc.MetaExcludeClass) {
			t.Excluded = true
		}
		for _, m := range rec.MetadataNamed(asdoc.MetaExclude) {
			name := m.Attr("name")
			if name == "" {
				continue
			}
			kind := ExcludeKind(strings.ToLower(m.Attr("kind")))
			if kind == "" {
				kind = ExcludeProperty
			}
			r.Exclude(t.Name, kind, name)
		}
	}
}

// MarkExcluded excludes whole class tables for which match returns true.
// It returns the number of tables newly excluded.
func (r *Registry) MarkExcluded(match func(t *ClassTable) bool) int {
	n := 0
	for _, t := range r.classes {
		if !t.Excluded && match(t) {
			t.Excluded = true
			n++
		}
	}
	return n
}
