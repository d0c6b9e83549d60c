package assemble

import (
	"strings"

	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/doctree"
	"github.com/dhamidi/asdoc/asdoc/registry"
	"github.com/dhamidi/asdoc/asdoc/tags"
)

// Property access values.
const (
	AccessRead      = "read"
	AccessWrite     = "write"
	AccessReadWrite = "readwrite"
)

// PropertyAccess returns the access of a property from which halves of its
// accessor pair exist.
func PropertyAccess(hasGetter, hasSetter bool) string {
	switch {
	case hasGetter && hasSetter:
		return AccessReadWrite
	case hasSetter:
		return AccessWrite
	case hasGetter:
		return AccessRead
	}
	return ""
}

var accessRank = map[string]int{
	asdoc.AccessPrivate:   0,
	asdoc.AccessInternal:  1,
	asdoc.AccessProtected: 2,
	asdoc.AccessPublic:    3,
}

// widestAccess returns the least restrictive access among recs. User
// namespaces rank with internal.
func widestAccess(recs []*asdoc.Record) string {
	best, rank := "", -1
	for _, r := range recs {
		acc := accessOf(r)
		n, ok := accessRank[acc]
		if !ok {
			n = accessRank[asdoc.AccessInternal]
		}
		if n > rank {
			best, rank = acc, n
		}
	}
	return best
}

// property merges an accessor pair into one value node. Either half may be
// nil. The property is hidden only when every present half is hidden; the
// getter is preferred as the source of documentation and type.
func (a *Assembler) property(t *registry.ClassTable, getter, setter *asdoc.Record) *doctree.Node {
	var shown []*asdoc.Record
	for _, r := range []*asdoc.Record{getter, setter} {
		if r != nil && a.memberVisible(t, r) {
			shown = append(shown, r)
		}
	}
	if len(shown) == 0 {
		return nil
	}

	doc := shown[0]
	for _, r := range shown {
		if r.Description() != "" {
			doc = r
			break
		}
	}

	var typ string
	if getter != nil {
		typ = getter.ResultType
	} else if len(setter.Params) > 0 {
		typ = setter.Params[0].Type
	}

	n := doctree.New("apiValue").Set("id", memberID(t, doc.Key))
	desc := a.detailHead(n, t, doc, doc.Key.Name)

	def := doctree.New("apiValueDef").Append(doctree.New("apiProperty"))
	def.Append(doctree.New("apiAccess").Set("value", widestAccess(shown)))
	if doc.Key.IsStatic {
		def.Append(doctree.New("apiStatic"))
	}
	def.Append(doctree.New("apiValueAccess").Set("value", PropertyAccess(getter != nil, setter != nil)))
	def.Append(doctree.New("apiType").Set("value", typ))
	def.AppendText("apiDefaultValue", doc.Tags.Single(tags.Default))

	n.Append(a.valueDetail(doc, def, desc))
	n.Append(a.relatedLinks(doc.QualifiedName, t.Name, doc.Tags))
	return n
}

func (a *Assembler) field(t *registry.ClassTable, rec *asdoc.Record) *doctree.Node {
	n := doctree.New("apiValue").Set("id", memberID(t, rec.Key))
	desc := a.detailHead(n, t, rec, rec.Key.Name)

	def := doctree.New("apiValueDef")
	def.Append(doctree.New("apiAccess").Set("value", accessOf(rec)))
	if rec.Key.IsStatic {
		def.Append(doctree.New("apiStatic"))
	}
	if rec.IsConst {
		def.Append(doctree.New("apiValueAccess").Set("value", AccessRead))
	}
	def.Append(doctree.New("apiType").Set("value", rec.VarType))
	def.AppendText("apiDefaultValue", rec.Tags.Single(tags.Default))
	def.AppendText("apiData", rec.DefaultValue)

	n.Append(a.valueDetail(rec, def, desc))
	n.Append(a.relatedLinks(rec.QualifiedName, t.Name, rec.Tags))
	return n
}

func (a *Assembler) valueDetail(rec *asdoc.Record, def *doctree.Node, desc string) *doctree.Node {
	detail := doctree.New("apiValueDetail").Append(def)
	if desc != "" {
		detail.Append(doctree.MarkupElem("apiDesc", desc))
	}
	detail.Append(a.examples(rec.QualifiedName, rec.Tags)...)
	return detail
}

func (a *Assembler) operation(t *registry.ClassTable, rec *asdoc.Record) *doctree.Node {
	n := doctree.New("apiOperation").Set("id", memberID(t, rec.Key))
	desc := a.detailHead(n, t, rec, rec.Key.Name)

	def := doctree.New("apiOperationDef")
	def.Append(doctree.New("apiAccess").Set("value", accessOf(rec)))
	if rec.Key.IsStatic {
		def.Append(doctree.New("apiStatic"))
	}
	ret := doctree.New("apiReturn").Append(doctree.New("apiType").Set("value", resultType(rec)))
	ret.Append(a.markupElem("apiDesc", rec.QualifiedName, "@return", rec.Tags.Single(tags.Return)))
	def.Append(ret)
	def.Append(a.params(rec)...)
	def.Append(a.exceptions(t, rec)...)

	detail := doctree.New("apiOperationDetail").Append(def)
	if desc != "" {
		detail.Append(doctree.MarkupElem("apiDesc", desc))
	}
	detail.Append(a.examples(rec.QualifiedName, rec.Tags)...)
	n.Append(detail)
	n.Append(a.relatedLinks(rec.QualifiedName, t.Name, rec.Tags))
	return n
}

func (a *Assembler) constructor(t *registry.ClassTable, rec *asdoc.Record) *doctree.Node {
	n := doctree.New("apiConstructor").Set("id", memberID(t, rec.Key))
	desc := a.detailHead(n, t, rec, rec.Key.Name)

	def := doctree.New("apiConstructorDef")
	def.Append(doctree.New("apiAccess").Set("value", accessOf(rec)))
	def.Append(a.params(rec)...)
	def.Append(a.exceptions(t, rec)...)

	detail := doctree.New("apiConstructorDetail").Append(def)
	if desc != "" {
		detail.Append(doctree.MarkupElem("apiDesc", desc))
	}
	detail.Append(a.examples(rec.QualifiedName, rec.Tags)...)
	n.Append(detail)
	n.Append(a.relatedLinks(rec.QualifiedName, t.Name, rec.Tags))
	return n
}

func resultType(rec *asdoc.Record) string {
	if rec.ResultType == "" {
		return "void"
	}
	return rec.ResultType
}

func (a *Assembler) params(rec *asdoc.Record) []*doctree.Node {
	names := make([]string, len(rec.Params))
	for i, p := range rec.Params {
		names[i] = p.Name
	}
	descs := paramDescriptions(names, rec.Tags.List(tags.Param))

	var out []*doctree.Node
	for i, p := range rec.Params {
		typ := p.Type
		if p.Rest {
			typ = "restParam"
		}
		n := doctree.New("apiParam")
		n.AppendText("apiItemName", p.Name)
		n.Append(doctree.New("apiType").Set("value", typ))
		n.AppendText("apiData", p.Default)
		n.Append(a.markupElem("apiDesc", rec.QualifiedName, "@param "+p.Name, descs[i]))
		out = append(out, n)
	}
	return out
}

// exceptions builds one node per @throws. The first word names the error
// class and is resolved relative to the declaring class.
func (a *Assembler) exceptions(t *registry.ClassTable, rec *asdoc.Record) []*doctree.Node {
	var out []*doctree.Node
	for _, body := range rec.Tags.List(tags.Throws) {
		class, rest := firstWord(body)
		if class == "" {
			continue
		}
		classifier := class
		if loc, ok := a.refs.Locate(class, t.Name); ok && loc.Class != "" && loc.Member == "" {
			classifier = loc.Class
		} else {
			a.diags.Warnf(diag.KindUnresolvedRef, rec.QualifiedName, "unresolved @throws class %q", class)
		}
		simple := class
		if i := strings.LastIndexByte(simple, '.'); i >= 0 {
			simple = simple[i+1:]
		}
		n := doctree.New("apiException")
		n.Append(a.markupElem("apiDesc", rec.QualifiedName, "@throws "+class, rest))
		n.AppendText("apiItemName", simple)
		n.AppendText("apiOperationClassifier", classifier)
		out = append(out, n)
	}
	return out
}
