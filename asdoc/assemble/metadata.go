package assemble

import (
	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/doctree"
	"github.com/dhamidi/asdoc/asdoc/registry"
	"github.com/dhamidi/asdoc/asdoc/tags"
)

// metadataGroups are the class-level annotations emitted as a list under
// a wrapper node, in output order.
var metadataGroups = []struct {
	name    string
	wrapper string
	item    string
	exclude registry.ExcludeKind
}{
	{asdoc.MetaStyle, "styles", "style", registry.ExcludeStyle},
	{asdoc.MetaEffect, "effects", "effect", registry.ExcludeEffect},
	{asdoc.MetaSkinState, "skinStates", "skinState", ""},
	{asdoc.MetaSkinPart, "skinParts", "skinPart", ""},
}

// singleMetadata are emitted as one node each, in output order.
var singleMetadata = []string{
	asdoc.MetaDefaultProperty,
	asdoc.MetaBindable,
	asdoc.MetaDeprecated,
	asdoc.MetaAlternative,
	asdoc.MetaDiscouragedForProfile,
}

// classMetadataEntries returns the annotations of a class: those carried
// by the class record followed by those registered as separate metadata
// declarations, without duplicates.
func classMetadataEntries(t *registry.ClassTable, rec *asdoc.Record) []*asdoc.Metadata {
	type id struct{ name, arg string }
	seen := make(map[id]bool)
	var out []*asdoc.Metadata
	add := func(m *asdoc.Metadata) {
		k := id{m.Name, m.Attr("name")}
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, m)
	}
	for _, m := range rec.Metadata {
		add(m)
	}
	for _, r := range t.Records() {
		if r.Key.Kind != asdoc.KindMetadata {
			continue
		}
		for _, m := range r.Metadata {
			if m.Tags == nil {
				m.Tags = r.Tags
			}
			add(m)
		}
	}
	return out
}

func named(entries []*asdoc.Metadata, name string) []*asdoc.Metadata {
	var out []*asdoc.Metadata
	for _, m := range entries {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

func (a *Assembler) classMetadata(t *registry.ClassTable, rec *asdoc.Record) []*doctree.Node {
	entries := classMetadataEntries(t, rec)
	var out []*doctree.Node
	for _, g := range metadataGroups {
		wrapper := doctree.New(g.wrapper)
		for _, m := range named(entries, g.name) {
			if g.exclude != "" && a.reg.IsExcluded(t.Name, g.exclude, m.Attr("name")) {
				continue
			}
			if m.Tags.Flag(tags.Private) && !a.opts.IncludePrivate {
				continue
			}
			wrapper.Append(a.metadataNode(t.Name, g.item, m))
		}
		if len(wrapper.Children) > 0 {
			out = append(out, wrapper)
		}
	}
	for _, name := range singleMetadata {
		for _, m := range named(entries, name) {
			out = append(out, a.metadataNode(t.Name, name, m))
		}
	}
	return out
}

func (a *Assembler) memberMetadata(rec *asdoc.Record) []*doctree.Node {
	var out []*doctree.Node
	for _, name := range singleMetadata {
		for _, m := range rec.MetadataNamed(name) {
			out = append(out, a.metadataNode(rec.QualifiedName, name, m))
		}
	}
	return out
}

// metadataNode renders an annotation with its arguments as attributes.
// The positional argument becomes "name".
func (a *Assembler) metadataNode(owner, tag string, m *asdoc.Metadata) *doctree.Node {
	n := doctree.New(tag)
	for _, attr := range m.Attributes {
		key := attr.Key
		if key == "" {
			key = "name"
		}
		n.Set(key, attr.Value)
	}
	if m.Inherited {
		n.Set("inherited", "true")
	}
	if m.Tags != nil {
		n.Append(a.markupElem("description", owner, "["+m.Name+"] description", m.Tags.Description))
		n.Append(versionNode(m.Tags))
	}
	return n
}

// events builds one node per [Event] annotation that is not excluded.
func (a *Assembler) events(t *registry.ClassTable, rec *asdoc.Record) []*doctree.Node {
	var out []*doctree.Node
	for _, m := range named(classMetadataEntries(t, rec), asdoc.MetaEvent) {
		name := m.Attr("name")
		if name == "" || a.reg.IsExcluded(t.Name, registry.ExcludeEvent, name) {
			continue
		}
		if m.Tags.Flag(tags.Private) && !a.opts.IncludePrivate {
			continue
		}
		owner := t.Name + "#event:" + name
		n := doctree.New("adobeApiEvent").Set("id", t.Name+"_"+name)
		n.AppendText("apiName", name)
		var desc string
		if m.Tags != nil {
			desc = a.markup(owner, "description", m.Tags.Description)
		}
		if desc != "" {
			n.Append(doctree.MarkupElem("shortdesc", shortDesc(desc)))
		}
		if v := versionNode(m.Tags); v != nil {
			n.Append(doctree.New("prolog").Append(doctree.New("asMetadata").Append(v)))
		}

		def := doctree.New("adobeApiEventDef")
		if typ := m.Attr("type"); typ != "" {
			def.Append(doctree.New("adobeApiEventClassifier").Set("value", typ))
		}
		def.AppendText("apiEventType", m.Tags.Single(tags.EventType))

		detail := doctree.New("adobeApiEventDetail").Append(def)
		if desc != "" {
			detail.Append(doctree.MarkupElem("apiDesc", desc))
		}
		detail.Append(a.examples(owner, m.Tags)...)
		n.Append(detail)
		n.Append(a.relatedLinks(owner, t.Name, m.Tags))
		out = append(out, n)
	}
	return out
}

// versionNode renders the version tags of a declaration, or returns nil
// when it has none.
func versionNode(ts *tags.TagSet) *doctree.Node {
	v := doctree.New("apiVersion")
	if lang := ts.Single(tags.LangVersion); lang != "" {
		v.Append(doctree.New("apiLanguage").Set("version", lang))
	}
	for _, p := range ts.List(tags.PlayerVersion) {
		name, version := splitVersion(p)
		v.Append(doctree.New("apiPlatform").Set("name", name).Set("version", version))
	}
	tools := append(append([]string(nil), ts.List(tags.ProductVersion)...), ts.Single(tags.ToolVersion))
	for _, p := range tools {
		if p == "" {
			continue
		}
		name, version := splitVersion(p)
		v.Append(doctree.New("apiTool").Set("name", name).Set("version", version))
	}
	if since := ts.Single(tags.Since); since != "" {
		v.Append(doctree.New("apiSince").Set("version", since))
	}
	if len(v.Children) == 0 {
		return nil
	}
	return v
}

// relatedLinks resolves the @see tags of a declaration of class, or
// returns nil when there are none.
func (a *Assembler) relatedLinks(owner, class string, ts *tags.TagSet) *doctree.Node {
	sees := ts.List(tags.See)
	if len(sees) == 0 {
		return nil
	}
	links := doctree.New("related-links")
	for _, raw := range sees {
		l := a.refs.ResolveSee(raw, class)
		if l.Label == "" && l.Href == "" {
			log.Debugf("%s: empty @see", owner)
			continue
		}
		link := doctree.New("link").Set("href", l.Href)
		if l.InvalidHref != "" {
			link.Set("invalidHref", l.InvalidHref)
		}
		link.AppendText("linktext", l.Label)
		links.Append(link)
	}
	if len(links.Children) == 0 {
		return nil
	}
	return links
}
