package inherit

import (
	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/registry"
)

var excludeKinds = []registry.ExcludeKind{
	registry.ExcludeProperty,
	registry.ExcludeMethod,
	registry.ExcludeEvent,
	registry.ExcludeStyle,
	registry.ExcludeEffect,
}

// PropagateExclusions copies the exclusions of every class on the base
// class chain of class into class itself. The walk stops at the root
// class, at a base class missing from the registry, and on a cycle.
func (r *Resolver) PropagateExclusions(class string) int {
	added := 0
	seen := map[string]bool{class: true}
	for cur := r.reg.BaseClass(class); cur != "" && cur != r.RootClass; cur = r.reg.BaseClass(cur) {
		if seen[cur] {
			r.diags.Warnf(diag.KindStructural, class, "base class cycle through %s", cur)
			return added
		}
		seen[cur] = true
		if r.reg.Class(cur) == nil {
			log.Debugf("%s: base class %s is outside the registry", class, cur)
			return added
		}
		for _, kind := range excludeKinds {
			for _, name := range r.reg.ExcludedNames(cur, kind) {
				if !r.reg.IsExcluded(class, kind, name) {
					r.reg.Exclude(class, kind, name)
					added++
				}
			}
		}
	}
	return added
}

// PropagateAllExclusions runs PropagateExclusions for every class.
func (r *Resolver) PropagateAllExclusions() int {
	added := 0
	for _, t := range r.reg.Classes() {
		if t.IsGlobalScope() {
			continue
		}
		added += r.PropagateExclusions(t.Name)
	}
	return added
}
