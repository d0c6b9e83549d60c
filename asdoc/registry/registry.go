// Package registry stores every declaration of a documentation run, keyed
// by class debug name and declaration key.
//
// Class tables refer to their ancestors by name only, so a class may be
// registered before or after the classes it extends.
package registry

import (
	"sort"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/qname"
)

var log = commonlog.GetLogger("asdoc.registry")

// ClassTable holds the records declared in one class, interface, or
// package global scope.
type ClassTable struct {
	Name string
	Info qname.Info
	// Ancestors lists base classes and implemented interfaces, sorted.
	Ancestors   []string
	IsInterface bool
	Excluded    bool

	entries []*asdoc.Record
}

// Records returns the table's records ordered by declaration key.
func (t *ClassTable) Records() []*asdoc.Record {
	return t.entries
}

// Get returns the record stored under key, or nil.
func (t *ClassTable) Get(key asdoc.DeclarationKey) *asdoc.Record {
	i, ok := t.search(key)
	if !ok {
		return nil
	}
	return t.entries[i]
}

// Class returns the table's own class or interface record, or nil when
// only members were registered.
func (t *ClassTable) Class() *asdoc.Record {
	name := t.Info.ClassName()
	if r := t.Get(asdoc.DeclarationKey{Name: name, Kind: asdoc.KindClass}); r != nil {
		return r
	}
	return t.Get(asdoc.DeclarationKey{Name: name, Kind: asdoc.KindInterface})
}

// ClassKey returns the key the table's own class record is stored under.
func (t *ClassTable) ClassKey() asdoc.DeclarationKey {
	kind := asdoc.KindClass
	if t.IsInterface {
		kind = asdoc.KindInterface
	}
	return asdoc.DeclarationKey{Name: t.Info.ClassName(), Kind: kind}
}

// IsGlobalScope reports whether the table is a package's placeholder for
// free functions and variables.
func (t *ClassTable) IsGlobalScope() bool {
	return t.Info.IsGlobalScope()
}

func (t *ClassTable) search(key asdoc.DeclarationKey) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return !t.entries[i].Key.Less(key)
	})
	return i, i < len(t.entries) && t.entries[i].Key == key
}

func (t *ClassTable) insert(i int, rec *asdoc.Record) {
	t.entries = append(t.entries, nil)
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = rec
}

// Package groups the class tables of one package.
type Package struct {
	Name   string
	Record *asdoc.Record

	classes []string
}

// ClassNames returns the package's class tables in the order they were
// first registered.
func (p *Package) ClassNames() []string {
	return p.classes
}

// Registry is the declaration store of one documentation run. It is
// populated sequentially; registration order breaks key collisions.
type Registry struct {
	classes    map[string]*ClassTable
	packages   map[string]*Package
	exclusions map[Exclusion]struct{}
	count      int
}

func New() *Registry {
	return &Registry{
		classes:    make(map[string]*ClassTable),
		packages:   make(map[string]*Package),
		exclusions: make(map[Exclusion]struct{}),
	}
}

// Register stores rec under qualifiedName. The record's Key.Kind and
// Key.IsStatic must be set; the key name is derived from qualifiedName.
// Ancestors apply to the owning class table and replace earlier ones when
// non-empty.
//
// On a key collision the existing record wins, unless the new record has
// its own comment id and is a function, accessor or field outside a
// user-defined namespace. Synthetic records built from metadata alone
// therefore never shadow documented ones.
func (r *Registry) Register(qualifiedName string, rec *asdoc.Record, ancestors []string, excluded bool) (*ClassTable, asdoc.DeclarationKey) {
	r.count++
	rec.QualifiedName = qualifiedName
	rec.Excluded = rec.Excluded || excluded

	if rec.Key.Kind == asdoc.KindPackage {
		pkg := r.ensurePackage(qualifiedName)
		rec.Key.Name = qualifiedName
		if pkg.Record == nil {
			pkg.Record = rec
		}
		return nil, rec.Key
	}

	var info qname.Info
	switch {
	case rec.Key.Kind.IsClassifier():
		info = qname.ParseClass(qualifiedName)
		rec.Key.Name = info.ClassName()
	case rec.Key.Kind == asdoc.KindMetadata:
		info = qname.ParseClass(qualifiedName)
		if len(rec.Metadata) > 0 {
			rec.Key.Name = metadataKeyName(rec.Metadata[0])
		}
	default:
		info = qname.ParseMember(qualifiedName)
		rec.Key.Name = info.MethodName
		switch info.Accessor {
		case qname.AccessorGet:
			rec.Key.Kind = asdoc.KindGetter
		case qname.AccessorSet:
			rec.Key.Kind = asdoc.KindSetter
		}
	}

	table := r.ensureClass(info)
	if rec.Key.Kind.IsClassifier() {
		table.IsInterface = rec.Key.Kind == asdoc.KindInterface
		if excluded {
			table.Excluded = true
		}
	}
	if len(ancestors) > 0 {
		table.Ancestors = sortedCopy(ancestors)
	}

	i, exists := table.search(rec.Key)
	switch {
	case !exists:
		table.insert(i, rec)
	case replaces(rec):
		log.Debugf("%s: %s replaces earlier record", table.Name, rec.Key)
		table.entries[i] = rec
	default:
		log.Debugf("%s: keeping earlier record for %s", table.Name, rec.Key)
	}
	return table, rec.Key
}

func replaces(rec *asdoc.Record) bool {
	return rec.CommentID != "" && rec.Key.Kind.IsMember() && !asdoc.IsUserNamespace(rec.Access)
}

func metadataKeyName(m *asdoc.Metadata) string {
	if name := m.Attr("name"); name != "" {
		return m.Name + ":" + name
	}
	return m.Name
}

func (r *Registry) ensurePackage(name string) *Package {
	pkg, ok := r.packages[name]
	if !ok {
		pkg = &Package{Name: name}
		r.packages[name] = pkg
	}
	return pkg
}

func (r *Registry) ensureClass(info qname.Info) *ClassTable {
	table, ok := r.classes[info.FullClassName]
	if ok {
		return table
	}
	table = &ClassTable{Name: info.FullClassName, Info: info}
	r.classes[info.FullClassName] = table
	pkg := r.ensurePackage(info.Package)
	pkg.classes = append(pkg.classes, info.FullClassName)
	return table
}

// Len returns the number of Register calls.
func (r *Registry) Len() int {
	return r.count
}

// Class returns the table for a class debug name, or nil.
func (r *Registry) Class(name string) *ClassTable {
	return r.classes[name]
}

// Lookup returns the record stored under key in class, or nil.
func (r *Registry) Lookup(class string, key asdoc.DeclarationKey) *asdoc.Record {
	t := r.classes[class]
	if t == nil {
		return nil
	}
	return t.Get(key)
}

// Classes returns all class tables sorted by name.
func (r *Registry) Classes() []*ClassTable {
	tables := make([]*ClassTable, 0, len(r.classes))
	for _, t := range r.classes {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Name < tables[j].Name
	})
	return tables
}

// Package returns the named package, or nil.
func (r *Registry) Package(name string) *Package {
	return r.packages[name]
}

// HasPackage reports whether any declaration was registered in package
// name.
func (r *Registry) HasPackage(name string) bool {
	_, ok := r.packages[name]
	return ok
}

// Packages returns all packages sorted by name.
func (r *Registry) Packages() []*Package {
	pkgs := make([]*Package, 0, len(r.packages))
	for _, p := range r.packages {
		pkgs = append(pkgs, p)
	}
	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].Name < pkgs[j].Name
	})
	return pkgs
}

// BaseClass returns the declared base class of a class, or "".
func (r *Registry) BaseClass(class string) string {
	t := r.classes[class]
	if t == nil {
		return ""
	}
	rec := t.Class()
	if rec == nil {
		return ""
	}
	return rec.BaseClass
}

// sortedCopy returns the distinct names in lexicographic order.
func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	j := 0
	for i, n := range out {
		if i > 0 && n == out[j-1] {
			continue
		}
		out[j] = n
		j++
	}
	return out[:j]
}
