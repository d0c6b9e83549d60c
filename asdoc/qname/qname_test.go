package qname

import (
	"reflect"
	"testing"
)

func TestParseClass(t *testing.T) {
	cases := []struct {
		name     string
		pkg      string
		classes  []string
		nss      []string
		fullName string
	}{
		{"mx.controls:Button", "mx.controls", []string{"Button"}, []string{Public}, "mx.controls:Button"},
		{"Object", "", []string{"Object"}, []string{Public}, "Object"},
		{"pkg:Outer/Inner", "pkg", []string{"Outer", "Inner"}, []string{Public, Public}, "pkg:Outer/Inner"},
		{"pkg:Outer/private:Inner", "pkg", []string{"Outer", "Inner"}, []string{Public, "private"}, "pkg:Outer/private:Inner"},
		{"pkg:Outer247$Inner", "pkg", []string{"Outer", "Inner"}, []string{Public, Public}, "pkg:Outer/Inner"},
		{":private:Helper", "", []string{"Helper"}, []string{"private"}, ":private:Helper"},
		{"$$mx.core$$", "mx.core", []string{"$$mx.core$$"}, []string{Public}, "$$mx.core$$"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := ParseClass(c.name)
			if info.Package != c.pkg {
				t.Errorf("package: got %q, want %q", info.Package, c.pkg)
			}
			if !reflect.DeepEqual(info.ClassNames, c.classes) {
				t.Errorf("classes: got %q, want %q", info.ClassNames, c.classes)
			}
			if !reflect.DeepEqual(info.ClassNamespaces, c.nss) {
				t.Errorf("namespaces: got %q, want %q", info.ClassNamespaces, c.nss)
			}
			if info.FullClassName != c.fullName {
				t.Errorf("full name: got %q, want %q", info.FullClassName, c.fullName)
			}
		})
	}
}

func TestParseMember(t *testing.T) {
	cases := []struct {
		name      string
		pkg       string
		classes   []string
		method    string
		methodNS  string
		accessor  Accessor
		className string
	}{
		{"mx.controls:Button/setStyle", "mx.controls", []string{"Button"}, "setStyle", Public, AccessorNone, "mx.controls:Button"},
		{"mx.controls:Button/label/get", "mx.controls", []string{"Button"}, "label", Public, AccessorGet, "mx.controls:Button"},
		{"mx.controls:Button/label/set", "mx.controls", []string{"Button"}, "label", Public, AccessorSet, "mx.controls:Button"},
		{"pkg:Base/mx_internal:x/get", "pkg", []string{"Base"}, "x", "mx_internal", AccessorGet, "pkg:Base"},
		{"pkg:Base/private:helper", "pkg", []string{"Base"}, "helper", "private", AccessorNone, "pkg:Base"},
		{"flash.utils:getTimer", "flash.utils", []string{"$$flash.utils$$"}, "getTimer", Public, AccessorNone, "$$flash.utils$$"},
		{"trace", "", []string{"$$$$"}, "trace", Public, AccessorNone, "$$$$"},
		// a single class segment before "get" is not enough to make an accessor
		{"pkg:label/get", "pkg", []string{"label"}, "get", Public, AccessorNone, "pkg:label"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := ParseMember(c.name)
			if info.Package != c.pkg {
				t.Errorf("package: got %q, want %q", info.Package, c.pkg)
			}
			if !reflect.DeepEqual(info.ClassNames, c.classes) {
				t.Errorf("classes: got %q, want %q", info.ClassNames, c.classes)
			}
			if info.MethodName != c.method {
				t.Errorf("member: got %q, want %q", info.MethodName, c.method)
			}
			if info.MethodNamespace != c.methodNS {
				t.Errorf("member namespace: got %q, want %q", info.MethodNamespace, c.methodNS)
			}
			if info.Accessor != c.accessor {
				t.Errorf("accessor: got %v, want %v", info.Accessor, c.accessor)
			}
			if info.FullClassName != c.className {
				t.Errorf("class: got %q, want %q", info.FullClassName, c.className)
			}
		})
	}
}

// The synthetic marker interacts with ':' and '/' differently depending on
// which comes first; every ordering is pinned here.
func TestParseSyntheticDelimiterOrderings(t *testing.T) {
	cases := []struct {
		order   string
		name    string
		classes []string
		nss     []string
		method  string
		ns      string
	}{
		{
			order:   "$ : /",
			name:    "pkg:Helper12$internal:Inner/run",
			classes: []string{"Helper", "Inner"},
			nss:     []string{Public, "internal"},
			method:  "run",
			ns:      Public,
		},
		{
			order:   "$ / :",
			name:    "pkg:Helper12$Inner/private:run",
			classes: []string{"Helper", "Inner"},
			nss:     []string{Public, Public},
			method:  "run",
			ns:      "private",
		},
		{
			order:   ": $ /",
			name:    "pkg:private:Helper12$Inner/run",
			classes: []string{"Helper", "Inner"},
			nss:     []string{Public, "private"},
			method:  "run",
			ns:      Public,
		},
		{
			order:   "/ $ :",
			name:    "pkg:Outer/Helper12$ns:run",
			classes: []string{"Outer", "Helper"},
			nss:     []string{Public, Public},
			method:  "run",
			ns:      "ns",
		},
		{
			order:   ": $ : /",
			name:    "pkg:private:Helper$ns:Inner/run",
			classes: []string{"Helper", "Inner"},
			nss:     []string{"private", "ns"},
			method:  "run",
			ns:      Public,
		},
	}

	for _, c := range cases {
		t.Run(c.order, func(t *testing.T) {
			info := ParseMember(c.name)
			if info.Package != "pkg" {
				t.Errorf("package: got %q, want %q", info.Package, "pkg")
			}
			if !reflect.DeepEqual(info.ClassNames, c.classes) {
				t.Errorf("classes: got %q, want %q", info.ClassNames, c.classes)
			}
			if !reflect.DeepEqual(info.ClassNamespaces, c.nss) {
				t.Errorf("namespaces: got %q, want %q", info.ClassNamespaces, c.nss)
			}
			if info.MethodName != c.method {
				t.Errorf("member: got %q, want %q", info.MethodName, c.method)
			}
			if info.MethodNamespace != c.ns {
				t.Errorf("member namespace: got %q, want %q", info.MethodNamespace, c.ns)
			}
		})
	}
}

func TestFullClassNameIsIdempotent(t *testing.T) {
	names := []string{
		"mx.controls:Button/label/get",
		"pkg:Outer/Inner/run",
		"pkg:Outer/private:Inner/run",
		"pkg:Helper12$internal:Inner/run",
		"pkg:private:Helper$ns:Inner/run",
		"pkg:private:Helper12$Inner/run",
		":private:Helper/run",
		"flash.utils:getTimer",
		"trace",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			first := ParseMember(name)
			again := ParseClass(first.FullClassName)
			if again.Package != first.Package {
				t.Fatalf("package: got %q, want %q", again.Package, first.Package)
			}
			if !reflect.DeepEqual(again.ClassNames, first.ClassNames) {
				t.Fatalf("classes: got %q, want %q", again.ClassNames, first.ClassNames)
			}
			if !reflect.DeepEqual(again.ClassNamespaces, first.ClassNamespaces) {
				t.Fatalf("namespaces: got %q, want %q", again.ClassNamespaces, first.ClassNamespaces)
			}
			if again.FullClassName != first.FullClassName {
				t.Fatalf("full name: got %q, want %q", again.FullClassName, first.FullClassName)
			}
		})
	}
}

func TestMember(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"mx.controls:Button/setStyle", "mx.controls:Button/setStyle"},
		{"mx.controls:Button/label/get", "mx.controls:Button/label/get"},
		{"pkg:Base/mx_internal:x/set", "pkg:Base/mx_internal:x/set"},
		{"pkg:Outer247$Inner/run", "pkg:Outer/Inner/run"},
		{"flash.utils:getTimer", "flash.utils:getTimer"},
		{"trace", "trace"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := ParseMember(c.name)
			got := Member(info.FullClassName, info.MethodNamespace, info.MethodName, info.Accessor)
			if got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
			again := ParseMember(got)
			if again.FullClassName != info.FullClassName || again.MethodName != info.MethodName ||
				again.MethodNamespace != info.MethodNamespace || again.Accessor != info.Accessor {
				t.Errorf("reparsed %q as %+v, want %+v", got, again, info)
			}
		})
	}
}

func TestOuterClassName(t *testing.T) {
	if got := ParseClass("pkg:Outer/Inner").OuterClassName(); got != "pkg:Outer" {
		t.Errorf("got %q, want %q", got, "pkg:Outer")
	}
	if got := ParseClass("pkg:Outer").OuterClassName(); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDotName(t *testing.T) {
	cases := map[string]string{
		"mx.controls:Button": "mx.controls.Button",
		"Object":             "Object",
		"pkg:Outer/Inner":    "pkg.Outer.Inner",
		"$$flash.utils$$":    "flash.utils",
	}
	for in, want := range cases {
		if got := DotName(in); got != want {
			t.Errorf("DotName(%q): got %q, want %q", in, got, want)
		}
	}
}
