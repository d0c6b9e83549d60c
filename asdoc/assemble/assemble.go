// Package assemble folds the registry into the document tree.
//
// Assembly runs in two passes. The first builds one node per declaration
// and folds every class's members into its classifier node, merging
// accessor pairs into single properties. The second attaches inner
// classifiers to their outer classifier and classifiers, free functions and
// free variables to their package. Packages left without content are
// dropped.
package assemble

import (
	"sort"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/doctree"
	"github.com/dhamidi/asdoc/asdoc/registry"
	"github.com/dhamidi/asdoc/asdoc/tags"
	"github.com/dhamidi/asdoc/asdoc/xref"
)

var log = commonlog.GetLogger("asdoc.assemble")

// TopLevel is the id and name of the package without a name.
const TopLevel = "__Global__"

// Options control what the assembler includes.
type Options struct {
	IncludePrivate  bool
	IncludeInternal bool
	// Examples resolves @includeExample. Without it the tag is ignored.
	Examples ExampleSource
}

type Assembler struct {
	reg   *registry.Registry
	refs  *xref.Resolver
	diags *diag.List
	opts  Options
}

func New(reg *registry.Registry, refs *xref.Resolver, diags *diag.List, opts Options) *Assembler {
	return &Assembler{reg: reg, refs: refs, diags: diags, opts: opts}
}

// classNode is a classifier under construction.
type classNode struct {
	table *registry.ClassTable
	node  *doctree.Node
	// free holds the operation and value nodes of a package's global
	// scope, which have no classifier node of their own.
	free []*doctree.Node
}

// Assemble builds the document tree.
func (a *Assembler) Assemble() *doctree.Node {
	built := a.buildClasses()
	packages := a.attach(built)

	root := doctree.New("asdoc")
	index := doctree.New("packageList")
	root.Append(index)
	for _, p := range packages {
		index.Append(doctree.New("package").
			Set("name", p.Attr("id")).
			Set("href", xref.PackageHref(packageName(p.Attr("id")))))
		root.Append(p)
	}
	log.Infof("assembled %d packages", len(packages))
	return root
}

// buildClasses is the per-declaration pass.
func (a *Assembler) buildClasses() []*classNode {
	var out []*classNode
	for _, t := range a.reg.Classes() {
		if t.IsGlobalScope() {
			if t.Excluded {
				continue
			}
			out = append(out, &classNode{table: t, free: a.members(t)})
			continue
		}
		if node := a.classifier(t); node != nil {
			out = append(out, &classNode{table: t, node: node})
		}
	}
	return out
}

// attach is the hierarchy pass. Inner classifiers are attached deepest
// first, so every classifier is complete before it is copied into its
// container.
func (a *Assembler) attach(built []*classNode) []*doctree.Node {
	byName := make(map[string]*classNode, len(built))
	for _, c := range built {
		byName[c.table.Name] = c
	}

	nested := make([]*classNode, 0, len(built))
	for _, c := range built {
		if c.node != nil && len(c.table.Info.ClassNames) > 1 {
			nested = append(nested, c)
		}
	}
	sort.SliceStable(nested, func(i, j int) bool {
		return len(nested[i].table.Info.ClassNames) > len(nested[j].table.Info.ClassNames)
	})
	attached := make(map[string]bool)
	for _, c := range nested {
		outerName := c.table.Info.OuterClassName()
		outer := byName[outerName]
		if outer == nil || outer.node == nil {
			if a.reg.Class(outerName) != nil {
				log.Debugf("%s: outer class hidden", c.table.Name)
				attached[c.table.Name] = true
				continue
			}
			log.Debugf("%s: outer class not registered; attaching to package", c.table.Name)
			continue
		}
		outer.node.Append(c.node)
		attached[c.table.Name] = true
	}

	pkgNodes := make(map[string]*doctree.Node)
	var order []string
	pkgNode := func(name string) *doctree.Node {
		if n, ok := pkgNodes[name]; ok {
			return n
		}
		n := a.packageNode(name)
		pkgNodes[name] = n
		order = append(order, name)
		return n
	}

	for _, c := range built {
		if attached[c.table.Name] {
			continue
		}
		pkg := c.table.Info.Package
		if c.node != nil {
			pkgNode(pkg).Append(c.node)
		}
		if len(c.free) > 0 {
			pkgNode(pkg).Append(c.free...)
		}
	}

	sort.Strings(order)
	var out []*doctree.Node
	for _, name := range order {
		n := pkgNodes[name]
		if !hasContent(n) {
			log.Debugf("dropping empty package %q", name)
			continue
		}
		out = append(out, n)
	}
	return out
}

func hasContent(pkg *doctree.Node) bool {
	for _, c := range pkg.Children {
		switch c.TagName {
		case "apiClassifier", "apiOperation", "apiValue":
			return true
		}
	}
	return false
}

func packageID(name string) string {
	if name == "" {
		return TopLevel
	}
	return name
}

func packageName(id string) string {
	if id == TopLevel {
		return ""
	}
	return id
}

func (a *Assembler) packageNode(name string) *doctree.Node {
	id := packageID(name)
	n := doctree.New("apiPackage").Set("id", id)
	n.AppendText("apiName", id)
	if p := a.reg.Package(name); p != nil && p.Record != nil {
		if desc := a.markupElem("apiDesc", id, "package description", p.Record.Description()); desc != nil {
			n.Append(doctree.New("apiDetail").Append(desc))
		}
	}
	return n
}

// visible reports whether a record passes the access filter.
func (a *Assembler) visible(rec *asdoc.Record) bool {
	if rec.IsPrivate() && !a.opts.IncludePrivate {
		return false
	}
	switch {
	case rec.Access == asdoc.AccessPrivate:
		return a.opts.IncludePrivate
	case rec.Access == asdoc.AccessInternal, asdoc.IsUserNamespace(rec.Access):
		return a.opts.IncludeInternal
	}
	return true
}

func accessOf(rec *asdoc.Record) string {
	if rec.Access == "" {
		return asdoc.AccessPublic
	}
	return rec.Access
}

// classifier builds the node of one class or interface with all of its
// members, or returns nil when the class is hidden.
func (a *Assembler) classifier(t *registry.ClassTable) *doctree.Node {
	rec := t.Class()
	if rec == nil {
		if len(t.Records()) > 0 {
			a.diags.Warnf(diag.KindStructural, t.Name, "members registered for undeclared class")
		}
		return nil
	}
	if t.Excluded || rec.Excluded || !a.visible(rec) {
		log.Debugf("%s: class hidden", t.Name)
		return nil
	}

	owner := t.Name
	n := doctree.New("apiClassifier").Set("id", t.Name)
	n.AppendText("apiName", t.Info.ClassName())

	desc := a.markup(owner, "description", rec.Description())
	if desc != "" {
		n.Append(doctree.MarkupElem("shortdesc", shortDesc(desc)))
	}
	n.Append(a.prolog(t, rec, true))

	def := doctree.New("apiClassifierDef")
	if t.IsInterface {
		def.Append(doctree.New("apiInterface"))
	}
	def.Append(doctree.New("apiAccess").Set("value", accessOf(rec)))
	if rec.Key.IsStatic {
		def.Append(doctree.New("apiStatic"))
	}
	if rec.IsFinal {
		def.Append(doctree.New("apiFinal"))
	}
	if rec.IsDynamic {
		def.Append(doctree.New("apiDynamic"))
	}
	bases := rec.Interfaces
	if t.IsInterface {
		bases = rec.BaseInterfaces
	}
	for _, b := range bases {
		def.AppendText("apiBaseInterface", b)
	}
	if !t.IsInterface {
		def.AppendText("apiBaseClassifier", rec.BaseClass)
	}
	def.AppendText("sourceFile", rec.SourceFile)

	detail := doctree.New("apiClassifierDetail").Append(def)
	if desc != "" {
		detail.Append(doctree.MarkupElem("apiDesc", desc))
	}
	detail.Append(a.examples(owner, rec.Tags)...)
	n.Append(detail)
	n.Append(a.relatedLinks(owner, t.Name, rec.Tags))

	n.Append(a.members(t)...)
	n.Append(a.events(t, rec)...)
	return n
}

// members builds the constructor, operation and value nodes of a class
// table in declaration key order.
func (a *Assembler) members(t *registry.ClassTable) []*doctree.Node {
	var out []*doctree.Node
	for _, rec := range t.Records() {
		switch rec.Key.Kind {
		case asdoc.KindFunction:
			if !a.memberVisible(t, rec) {
				continue
			}
			if !t.IsGlobalScope() && rec.Key.Name == t.Info.ClassName() {
				out = append(out, a.constructor(t, rec))
			} else {
				out = append(out, a.operation(t, rec))
			}
		case asdoc.KindGetter:
			setter := t.Get(rec.Key.Counterpart())
			if n := a.property(t, rec, setter); n != nil {
				out = append(out, n)
			}
		case asdoc.KindSetter:
			if t.Get(rec.Key.Counterpart()) != nil {
				continue
			}
			if n := a.property(t, nil, rec); n != nil {
				out = append(out, n)
			}
		case asdoc.KindField:
			if !a.memberVisible(t, rec) {
				continue
			}
			out = append(out, a.field(t, rec))
		}
	}
	return out
}

func (a *Assembler) memberVisible(t *registry.ClassTable, rec *asdoc.Record) bool {
	return !a.reg.IsRecordExcluded(t.Name, rec) && a.visible(rec)
}

func memberID(t *registry.ClassTable, key asdoc.DeclarationKey) string {
	name := key.Name
	if key.IsStatic {
		name = "static:" + name
	}
	if t.IsGlobalScope() {
		return packageID(t.Info.Package) + ":" + name
	}
	return t.Name + ":" + name
}

// prolog builds the author list and metadata block of a declaration. Class
// metadata such as styles and effects is only emitted for classifiers.
func (a *Assembler) prolog(t *registry.ClassTable, rec *asdoc.Record, classLevel bool) *doctree.Node {
	p := doctree.New("prolog")
	for _, author := range rec.Tags.List(tags.Author) {
		p.AppendText("author", author)
	}
	meta := doctree.New("asMetadata")
	meta.Append(versionNode(rec.Tags))
	if classLevel {
		meta.Append(a.classMetadata(t, rec)...)
	} else {
		meta.Append(a.memberMetadata(rec)...)
	}
	if len(meta.Children) > 0 {
		p.Append(meta)
	}
	if len(p.Children) == 0 {
		return nil
	}
	return p
}

// detailHead appends the name, short description and prolog shared by all
// member nodes, and returns the validated description.
func (a *Assembler) detailHead(n *doctree.Node, t *registry.ClassTable, rec *asdoc.Record, name string) string {
	owner := rec.QualifiedName
	n.AppendText("apiName", name)
	desc := a.markup(owner, "description", rec.Description())
	if desc != "" {
		n.Append(doctree.MarkupElem("shortdesc", shortDesc(desc)))
	}
	n.Append(a.prolog(t, rec, false))
	return desc
}
