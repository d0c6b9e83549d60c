package inherit

import (
	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/registry"
)

// SymbolTable answers questions about classes that may lie outside the
// documented set, such as framework base classes.
type SymbolTable interface {
	// BaseClass returns the base class of class, or "" when unknown.
	BaseClass(class string) string
	// DefaultProperty returns the [DefaultProperty] declared directly on
	// class.
	DefaultProperty(class string) (string, bool)
}

// RegistrySymbols answers from the registry first and falls back to an
// optional external table.
type RegistrySymbols struct {
	Registry *registry.Registry
	External SymbolTable
}

func (s RegistrySymbols) BaseClass(class string) string {
	if t := s.Registry.Class(class); t != nil && t.Class() != nil {
		return t.Class().BaseClass
	}
	if s.External != nil {
		return s.External.BaseClass(class)
	}
	return ""
}

func (s RegistrySymbols) DefaultProperty(class string) (string, bool) {
	if t := s.Registry.Class(class); t != nil && t.Class() != nil {
		for _, m := range t.Class().MetadataNamed(asdoc.MetaDefaultProperty) {
			if !m.Inherited {
				return m.Attr("name"), true
			}
		}
		return "", false
	}
	if s.External != nil {
		return s.External.DefaultProperty(class)
	}
	return "", false
}

// MapSymbols is a SymbolTable backed by maps, for callers that already
// know the relevant classes.
type MapSymbols struct {
	Bases    map[string]string
	Defaults map[string]string
}

func (m MapSymbols) BaseClass(class string) string {
	return m.Bases[class]
}

func (m MapSymbols) DefaultProperty(class string) (string, bool) {
	v, ok := m.Defaults[class]
	return v, ok
}

// MergeDefaultProperty gives class an inherited [DefaultProperty] entry
// when it declares none and a base class found through syms does. It
// reports whether an entry was added.
func (r *Resolver) MergeDefaultProperty(class string, syms SymbolTable) bool {
	table := r.reg.Class(class)
	if table == nil {
		return false
	}
	rec := table.Class()
	if rec == nil || rec.HasMetadata(asdoc.MetaDefaultProperty) {
		return false
	}

	seen := map[string]bool{class: true}
	for cur := syms.BaseClass(class); cur != "" && cur != r.RootClass && !seen[cur]; cur = syms.BaseClass(cur) {
		seen[cur] = true
		value, ok := syms.DefaultProperty(cur)
		if !ok {
			continue
		}
		rec.Metadata = append(rec.Metadata, &asdoc.Metadata{
			Name:       asdoc.MetaDefaultProperty,
			Attributes: []asdoc.Attribute{{Value: value}},
			Inherited:  true,
		})
		log.Debugf("%s: default property %q inherited from %s", class, value, cur)
		return true
	}
	return false
}

// MergeAllDefaultProperties runs MergeDefaultProperty for every class.
func (r *Resolver) MergeAllDefaultProperties(syms SymbolTable) int {
	n := 0
	for _, t := range r.reg.Classes() {
		if t.IsGlobalScope() {
			continue
		}
		if r.MergeDefaultProperty(t.Name, syms) {
			n++
		}
	}
	return n
}
