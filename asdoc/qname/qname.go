// Package qname decomposes compiler debug names into package, nested class
// chain and member parts.
//
// Debug names use three delimiters:
//
//	':'  namespace separator; the first one ends the package
//	'/'  member separator
//	'$'  synthetic nesting marker, optionally preceded by a numeric
//	     disambiguator ("Helper247$")
//
// Examples: "mx.controls:Button", "mx.controls:Button/label/get",
// "flash.utils:getTimer", "pkg:Outer/private:helper".
package qname

import (
	"strings"
)

// Public is the namespace of segments that carry none.
const Public = "public"

// Accessor classifies a member as getter, setter or neither.
type Accessor int

const (
	AccessorNone Accessor = iota
	AccessorGet
	AccessorSet
)

func (a Accessor) String() string {
	switch a {
	case AccessorGet:
		return "get"
	case AccessorSet:
		return "set"
	}
	return "none"
}

// Info is the decomposition of a debug name.
type Info struct {
	Package         string
	ClassNames      []string
	ClassNamespaces []string
	MethodName      string
	MethodNamespace string
	Accessor        Accessor
	// FullClassName is the canonical class name rebuilt from Package,
	// ClassNames and ClassNamespaces.
	FullClassName string
}

// ClassName returns the innermost class name, or "".
func (i Info) ClassName() string {
	if len(i.ClassNames) == 0 {
		return ""
	}
	return i.ClassNames[len(i.ClassNames)-1]
}

// OuterClassName returns the canonical name of the enclosing class of a
// nested class, or "" for a top-level class.
func (i Info) OuterClassName() string {
	if len(i.ClassNames) < 2 {
		return ""
	}
	return Build(i.Package, i.ClassNames[:len(i.ClassNames)-1], i.ClassNamespaces[:len(i.ClassNamespaces)-1])
}

// IsGlobalScope reports whether the class is the placeholder holding a
// package's free functions and variables.
func (i Info) IsGlobalScope() bool {
	return len(i.ClassNames) == 1 && IsPlaceholder(i.ClassNames[0])
}

// state of the decomposition machine.
type state int

const (
	awaitingPackage state = iota
	awaitingSegment
	awaitingNamespacedSegment
	terminal
)

type machine struct {
	state   state
	rest    string
	pkg     string
	pending string
	classes []string
	nss     []string
	atom    string
}

func (m *machine) push(name, ns string) {
	m.classes = append(m.classes, name)
	m.nss = append(m.nss, nsOrPublic(ns))
}

// step consumes one delimiter-terminated segment.
func (m *machine) step() {
	i := strings.IndexAny(m.rest, ":/$")
	if i < 0 {
		m.atom = m.rest
		m.rest = ""
		m.state = terminal
		return
	}
	seg, delim := m.rest[:i], m.rest[i]
	m.rest = m.rest[i+1:]

	switch delim {
	case ':':
		if m.state == awaitingPackage {
			m.pkg = seg
			m.state = awaitingSegment
			return
		}
		m.pending = seg
		m.state = awaitingNamespacedSegment
	case '/':
		m.push(seg, m.pending)
		m.pending = ""
		m.state = awaitingSegment
	case '$':
		m.synthetic(strings.TrimRight(seg, "0123456789"))
	}
}

// synthetic opens a synthetic inner scope. Whether a namespace written
// after the marker belongs to the inner segment is decided by where the
// next ':' falls relative to the next '/'.
func (m *machine) synthetic(name string) {
	colon := strings.IndexByte(m.rest, ':')
	slash := strings.IndexByte(m.rest, '/')
	if colon >= 0 && (slash < 0 || colon < slash) {
		// "$ns:Inner": the inner segment names its own namespace, so the
		// outer one stays with the synthetic scope.
		m.push(name, m.pending)
		m.pending = ""
	} else {
		// "$Inner/..." or "$Inner": the outer namespace carries through to
		// the inner segment.
		m.push(name, Public)
	}
	m.state = awaitingSegment
}

func (m *machine) run(name string) {
	m.rest = name
	m.state = awaitingPackage
	for m.state != terminal {
		m.step()
	}
}

// ParseClass decomposes a class debug name. The final atom is the
// innermost class.
func ParseClass(name string) Info {
	if IsPlaceholder(name) {
		return Info{
			Package:         PlaceholderPackage(name),
			ClassNames:      []string{name},
			ClassNamespaces: []string{Public},
			FullClassName:   name,
		}
	}

	m := &machine{}
	m.run(name)
	if m.atom != "" || len(m.classes) == 0 {
		m.push(m.atom, m.pending)
	}
	return finish(m.pkg, m.classes, m.nss, Info{})
}

// ParseMember decomposes a function, accessor or field debug name. The
// final atom is the member; "get" and "set" atoms after more than one
// class segment mark accessors and the property name is taken from the
// last class segment.
func ParseMember(name string) Info {
	m := &machine{}
	m.run(name)

	info := Info{
		MethodName:      m.atom,
		MethodNamespace: nsOrPublic(m.pending),
	}
	if (m.atom == "get" || m.atom == "set") && len(m.classes) > 1 {
		if m.atom == "get" {
			info.Accessor = AccessorGet
		} else {
			info.Accessor = AccessorSet
		}
		last := len(m.classes) - 1
		info.MethodName = m.classes[last]
		info.MethodNamespace = m.nss[last]
		m.classes = m.classes[:last]
		m.nss = m.nss[:last]
	}

	if len(m.classes) == 0 {
		m.push(Placeholder(m.pkg), Public)
	}
	return finish(m.pkg, m.classes, m.nss, info)
}

func finish(pkg string, classes, nss []string, info Info) Info {
	info.Package = pkg
	info.ClassNames = classes
	info.ClassNamespaces = nss
	info.FullClassName = Build(pkg, classes, nss)
	return info
}

// Build renders the canonical class name. ParseClass(Build(...)) yields
// the same package, class names and namespaces.
func Build(pkg string, classes, nss []string) string {
	if len(classes) == 1 && IsPlaceholder(classes[0]) {
		return classes[0]
	}
	var sb strings.Builder
	if pkg != "" || (len(nss) > 0 && nss[0] != Public) {
		sb.WriteString(pkg)
		sb.WriteByte(':')
	}
	for i, c := range classes {
		if i > 0 {
			sb.WriteByte('/')
		}
		if nss[i] != Public {
			sb.WriteString(nss[i])
			sb.WriteByte(':')
		}
		sb.WriteString(c)
	}
	return sb.String()
}

// Member renders the canonical debug name of a member of class. Members of
// a package placeholder render as pkg:name.
func Member(class, ns, name string, accessor Accessor) string {
	if ns != "" && ns != Public {
		name = ns + ":" + name
	}
	var s string
	switch {
	case !IsPlaceholder(class):
		s = class + "/" + name
	case PlaceholderPackage(class) == "":
		s = name
	default:
		s = PlaceholderPackage(class) + ":" + name
	}
	switch accessor {
	case AccessorGet:
		s += "/get"
	case AccessorSet:
		s += "/set"
	}
	return s
}

// Placeholder returns the synthetic class name holding the free functions
// and variables of pkg.
func Placeholder(pkg string) string {
	return "$$" + pkg + "$$"
}

// IsPlaceholder reports whether name is a global-scope placeholder.
func IsPlaceholder(name string) bool {
	return len(name) >= 4 && strings.HasPrefix(name, "$$") && strings.HasSuffix(name, "$$")
}

// PlaceholderPackage returns the package a placeholder stands for.
func PlaceholderPackage(name string) string {
	return name[2 : len(name)-2]
}

// PackageOf returns the package part of a class debug name.
func PackageOf(class string) string {
	return ParseClass(class).Package
}

// DotName renders a class debug name in dotted source form, e.g.
// "mx.controls:Button" as "mx.controls.Button".
func DotName(class string) string {
	info := ParseClass(class)
	if info.IsGlobalScope() {
		return info.Package
	}
	name := strings.Join(info.ClassNames, ".")
	if info.Package == "" {
		return name
	}
	return info.Package + "." + name
}

func nsOrPublic(ns string) string {
	if ns == "" {
		return Public
	}
	return ns
}
