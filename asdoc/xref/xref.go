// Package xref resolves @see-style references against the registry.
//
// A reference is either a quoted label, an external URL or file, or a
// declaration target written in source form:
//
//	mx.controls.Button
//	mx.controls.Button#label
//	Button#setStyle()
//	#event:change
//	flash.utils.getTimer
//	mx.controls
//
// Resolution never fails hard: an unresolved target keeps its label and
// records the attempted href separately.
package xref

import (
	"path"
	"strings"
	"unicode"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/asdoc/asdoc"
	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/qname"
	"github.com/dhamidi/asdoc/asdoc/registry"
)

var log = commonlog.GetLogger("asdoc.xref")

// Link is a resolved reference. Href is empty for plain labels and for
// targets that could not be resolved; InvalidHref then holds the best
// guess.
type Link struct {
	Href        string
	Label       string
	InvalidHref string
}

// memberPrefixes name metadata-backed members. Their ':' would otherwise
// read as a namespace delimiter.
var memberPrefixes = []string{"event:", "style:", "effect:", "skinstate:", "skinpart:"}

const prefixEscape = "!"

// externalExtensions mark a target as a file rather than a declaration.
var externalExtensions = map[string]bool{
	".html": true, ".htm": true, ".xml": true, ".pdf": true,
	".swf": true, ".txt": true, ".mxml": true, ".as": true,
}

type Resolver struct {
	reg   *registry.Registry
	diags *diag.List
}

func New(reg *registry.Registry, diags *diag.List) *Resolver {
	return &Resolver{reg: reg, diags: diags}
}

// Target is a located declaration.
type Target struct {
	// Package is set for package targets and package-level members.
	Package string
	// Class is the debug name of the class table holding the target.
	Class string
	// Member is the member name without prefix or parameter list.
	Member string
	// Prefix is the metadata prefix ("event:", ...) of the member, if any.
	Prefix string
	Href   string
}

// Records returns the registry records for the target member, in key order.
func (r *Resolver) Records(t Target) []*asdoc.Record {
	table := r.reg.Class(t.Class)
	if table == nil || t.Member == "" {
		return nil
	}
	var out []*asdoc.Record
	for _, rec := range table.Records() {
		if rec.Key.Name == t.Member && rec.Key.Kind.IsMember() {
			out = append(out, rec)
		}
	}
	return out
}

// ResolveSee resolves one @see body written on a declaration of fromClass.
func (r *Resolver) ResolveSee(raw, fromClass string) Link {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Link{}
	}
	if raw[0] == '"' {
		return Link{Label: unquote(raw)}
	}

	target, label := splitLabel(raw)
	if isURL(target) {
		return externalLink(target, label)
	}

	// Declarations win over file names so packages like flash.xml resolve.
	if t, ok := r.Locate(target, fromClass); ok {
		if label == "" {
			label = displayLabel(target)
		}
		return Link{Href: t.Href, Label: label}
	}
	if isFile(target) {
		return externalLink(target, label)
	}
	if label == "" {
		label = displayLabel(target)
	}

	guess := r.guessHref(target, fromClass)
	r.diags.Warnf(diag.KindUnresolvedRef, fromClass, "unresolved @see target %q", target)
	return Link{Label: label, InvalidHref: guess}
}

// Locate resolves a declaration target relative to fromClass. It tries an
// exact qualified class match, then a package or package-level member, then
// the class's members and its ancestors' members.
func (r *Resolver) Locate(target, fromClass string) (Target, bool) {
	classPart, member, prefix := splitTarget(escapePrefixes(target))

	if classPart == "" {
		if member == "" {
			return Target{}, false
		}
		return r.locateMember(fromClass, member, prefix)
	}

	if class, ok := r.findClass(classPart, fromClass); ok {
		if member == "" {
			return Target{Class: class, Href: classHref(class, "")}, true
		}
		return r.locateMember(class, member, prefix)
	}

	if t, ok := r.findPackage(classPart, member); ok {
		return t, true
	}

	log.Debugf("no declaration for %q from %s", target, fromClass)
	return Target{}, false
}

// findClass maps a source-form class reference to a registered class table.
func (r *Resolver) findClass(ref, fromClass string) (string, bool) {
	var candidates []string
	if strings.Contains(ref, ":") {
		candidates = append(candidates, ref)
	}

	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		candidates = append(candidates, ref[:i]+":"+ref[i+1:])
		// nested classes: a.b.Outer.Inner
		if j := strings.LastIndexByte(ref[:i], '.'); j >= 0 {
			candidates = append(candidates, ref[:j]+":"+ref[j+1:i]+"/"+ref[i+1:])
		}
	} else {
		if fromClass != "" {
			from := qname.ParseClass(fromClass)
			if from.Package != "" {
				candidates = append(candidates, from.Package+":"+ref)
			}
			candidates = append(candidates, fromClass+"/"+ref)
		}
		candidates = append(candidates, ref)
	}

	for _, c := range candidates {
		if t := r.reg.Class(c); t != nil && t.Class() != nil {
			return t.Name, true
		}
	}
	return "", false
}

// findPackage treats ref as a package, or as a package followed by a
// package-level member.
func (r *Resolver) findPackage(ref, member string) (Target, bool) {
	if member == "" {
		if r.reg.HasPackage(ref) && ref != "" {
			return Target{Package: ref, Href: packageHref(ref)}, true
		}
		if i := strings.LastIndexByte(ref, '.'); i >= 0 {
			pkg, name := ref[:i], ref[i+1:]
			if t, ok := r.packageMember(pkg, name); ok {
				return t, true
			}
		}
		return Target{}, false
	}
	if r.reg.HasPackage(ref) {
		return r.packageMember(ref, member)
	}
	return Target{}, false
}

func (r *Resolver) packageMember(pkg, name string) (Target, bool) {
	if !r.reg.HasPackage(pkg) {
		return Target{}, false
	}
	class := qname.Placeholder(pkg)
	if !r.hasMember(class, name) {
		return Target{}, false
	}
	return Target{Package: pkg, Class: class, Member: name, Href: packageHref(pkg) + "#" + name}, true
}

// locateMember finds member in class or, failing that, in the first
// ancestor declaring it.
func (r *Resolver) locateMember(class, member, prefix string) (Target, bool) {
	name := stripParams(member)
	owners := []string{class}
	if t := r.reg.Class(class); t != nil {
		owners = append(owners, t.Ancestors...)
	}
	for _, owner := range owners {
		if r.hasPrefixedMember(owner, name, prefix) {
			anchor := prefix + name
			if qname.IsPlaceholder(owner) {
				pkg := qname.PlaceholderPackage(owner)
				return Target{Package: pkg, Class: owner, Member: name, Prefix: prefix, Href: packageHref(pkg) + "#" + anchor}, true
			}
			return Target{Class: owner, Member: name, Prefix: prefix, Href: classHref(owner, anchor)}, true
		}
	}
	return Target{}, false
}

func (r *Resolver) hasPrefixedMember(class, name, prefix string) bool {
	if prefix == "" {
		return r.hasMember(class, name)
	}
	t := r.reg.Class(class)
	if t == nil {
		return false
	}
	metaName := metadataForPrefix(prefix)
	if t.Get(asdoc.DeclarationKey{Name: metaName + ":" + name, Kind: asdoc.KindMetadata}) != nil {
		return true
	}
	rec := t.Class()
	if rec == nil {
		return false
	}
	for _, m := range rec.MetadataNamed(metaName) {
		if m.Attr("name") == name {
			return true
		}
	}
	return false
}

func (r *Resolver) hasMember(class, name string) bool {
	t := r.reg.Class(class)
	if t == nil {
		return false
	}
	for _, rec := range t.Records() {
		if rec.Key.Name == name && rec.Key.Kind.IsMember() {
			return true
		}
	}
	return false
}

func metadataForPrefix(prefix string) string {
	switch prefix {
	case "event:":
		return asdoc.MetaEvent
	case "style:":
		return asdoc.MetaStyle
	case "effect:":
		return asdoc.MetaEffect
	case "skinstate:":
		return asdoc.MetaSkinState
	case "skinpart:":
		return asdoc.MetaSkinPart
	}
	return ""
}

// ClassHref returns the href of a class page, with an optional anchor
// inside it.
func ClassHref(class string) string {
	return classHref(class, "")
}

func classHref(class, anchor string) string {
	info := qname.ParseClass(class)
	href := qname.DotName(class) + ".xml#" + info.ClassName()
	if anchor != "" {
		href += "/" + anchor
	}
	return href
}

// PackageHref returns the href of a package page.
func PackageHref(pkg string) string {
	return packageHref(pkg)
}

func packageHref(pkg string) string {
	if pkg == "" {
		return "toplevel.xml"
	}
	return pkg + ".xml"
}

func externalLink(target, label string) Link {
	if label == "" {
		label = target
	}
	return Link{Href: target, Label: label}
}

// guessHref builds the href an unresolved target would have had if it
// named a class page. A class that resolves keeps its real page.
func (r *Resolver) guessHref(target, fromClass string) string {
	classPart, member, prefix := splitTarget(escapePrefixes(target))
	if classPart != "" {
		if class, ok := r.findClass(classPart, fromClass); ok {
			return classHref(class, prefix+stripParams(member))
		}
	}
	var file, simple string
	if classPart == "" {
		file = qname.DotName(fromClass)
		simple = qname.ParseClass(fromClass).ClassName()
	} else {
		file = strings.ReplaceAll(classPart, ":", ".")
		simple = file
		if i := strings.LastIndexByte(file, '.'); i >= 0 {
			simple = file[i+1:]
		}
	}
	href := file + ".xml#" + simple
	if member != "" {
		href += "/" + prefix + stripParams(member)
	}
	return href
}

// splitTarget splits "Class#member" and restores an escaped member prefix.
func splitTarget(target string) (classPart, member, prefix string) {
	classPart, member, _ = strings.Cut(target, "#")
	for _, p := range memberPrefixes {
		esc := strings.TrimSuffix(p, ":") + prefixEscape
		if strings.HasPrefix(member, esc) {
			return classPart, strings.TrimPrefix(member, esc), p
		}
	}
	return classPart, member, ""
}

func escapePrefixes(target string) string {
	for _, p := range memberPrefixes {
		target = strings.ReplaceAll(target, "#"+p, "#"+strings.TrimSuffix(p, ":")+prefixEscape)
	}
	return target
}

func splitLabel(raw string) (target, label string) {
	i := strings.IndexFunc(raw, unicode.IsSpace)
	if i < 0 {
		return raw, ""
	}
	return raw[:i], strings.TrimSpace(raw[i:])
}

// displayLabel renders a target for display: "Class#member" becomes
// "Class.member" and a local "#member" becomes "member".
func displayLabel(target string) string {
	classPart, member, _ := strings.Cut(target, "#")
	if member == "" {
		return classPart
	}
	if classPart == "" {
		return member
	}
	return classPart + "." + member
}

func isURL(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:")
}

func isFile(target string) bool {
	file, _, _ := strings.Cut(target, "#")
	return externalExtensions[strings.ToLower(path.Ext(file))]
}

func stripParams(member string) string {
	if i := strings.IndexByte(member, '('); i >= 0 {
		return member[:i]
	}
	return member
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	if i := strings.IndexByte(s, '"'); i >= 0 {
		s = s[:i]
	}
	return s
}
