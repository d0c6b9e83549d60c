// Package asdoc holds the declaration model shared by the documentation
// pipeline: declaration keys, records, metadata and input descriptors.
package asdoc

import (
	"fmt"
	"strings"

	"github.com/dhamidi/asdoc/asdoc/tags"
)

// Kind is the kind of a documentable declaration. The numeric order is
// part of DeclarationKey ordering and therefore of output ordering.
type Kind int

const (
	KindPackage Kind = iota
	KindClass
	KindInterface
	KindFunction
	KindGetter
	KindSetter
	KindField
	KindMetadata
)

var kindNames = [...]string{
	KindPackage:   "package",
	KindClass:     "class",
	KindInterface: "interface",
	KindFunction:  "function",
	KindGetter:    "getter",
	KindSetter:    "setter",
	KindField:     "field",
	KindMetadata:  "metadata",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name as written in descriptor files to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "package":
		return KindPackage, nil
	case "class":
		return KindClass, nil
	case "interface":
		return KindInterface, nil
	case "function", "method":
		return KindFunction, nil
	case "getter", "get":
		return KindGetter, nil
	case "setter", "set":
		return KindSetter, nil
	case "field", "variable", "const":
		return KindField, nil
	case "metadata":
		return KindMetadata, nil
	}
	return 0, fmt.Errorf("unknown declaration kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// IsClassifier reports whether k names a class or interface.
func (k Kind) IsClassifier() bool {
	return k == KindClass || k == KindInterface
}

// IsAccessor reports whether k is a getter or setter.
func (k Kind) IsAccessor() bool {
	return k == KindGetter || k == KindSetter
}

// IsMember reports whether k is a function, accessor or field.
func (k Kind) IsMember() bool {
	return k == KindFunction || k.IsAccessor() || k == KindField
}

// DeclarationKey identifies a declaration within its class table.
type DeclarationKey struct {
	Name     string
	Kind     Kind
	IsStatic bool
}

// Less orders keys by kind, then name, then staticness (instance first).
// The order governs the order of members in the document tree.
func (k DeclarationKey) Less(o DeclarationKey) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	if k.Name != o.Name {
		return k.Name < o.Name
	}
	return !k.IsStatic && o.IsStatic
}

// Compare returns -1, 0 or 1 following Less.
func (k DeclarationKey) Compare(o DeclarationKey) int {
	switch {
	case k == o:
		return 0
	case k.Less(o):
		return -1
	default:
		return 1
	}
}

func (k DeclarationKey) String() string {
	s := k.Kind.String() + " " + k.Name
	if k.IsStatic {
		s += " (static)"
	}
	return s
}

// Counterpart returns the key of the other half of an accessor pair.
// For non-accessor keys it returns k unchanged.
func (k DeclarationKey) Counterpart() DeclarationKey {
	switch k.Kind {
	case KindGetter:
		k.Kind = KindSetter
	case KindSetter:
		k.Kind = KindGetter
	}
	return k
}

// Access values recognized on records. Any other value is a user-defined
// namespace.
const (
	AccessPublic    = "public"
	AccessProtected = "protected"
	AccessPrivate   = "private"
	AccessInternal  = "internal"
)

// IsUserNamespace reports whether access names a user-defined namespace
// rather than one of the built-in access modifiers.
func IsUserNamespace(access string) bool {
	switch access {
	case "", AccessPublic, AccessProtected, AccessPrivate, AccessInternal:
		return false
	}
	return true
}

// Param is one function parameter.
type Param struct {
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"`
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
	Rest    bool   `yaml:"rest,omitempty" json:"rest,omitempty"`
}

// Attribute is one key/value argument of a metadata annotation. Order is
// significant, so attributes are kept as a list.
type Attribute struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Metadata names understood by the assembler.
const (
	MetaEvent                 = "Event"
	MetaStyle                 = "Style"
	MetaEffect                = "Effect"
	MetaSkinState             = "SkinState"
	MetaSkinPart              = "SkinPart"
	MetaBindable              = "Bindable"
	MetaDefaultProperty       = "DefaultProperty"
	MetaDeprecated            = "Deprecated"
	MetaAlternative           = "Alternative"
	MetaDiscouragedForProfile = "DiscouragedForProfile"
	MetaExclude               = "Exclude"
	MetaExcludeClass          = "ExcludeClass"
)

// Metadata is a documented compiler annotation attached to a declaration.
type Metadata struct {
	Name       string
	Attributes []Attribute
	Tags       *tags.TagSet
	// Inherited marks entries synthesized from an ancestor.
	Inherited bool
}

// Attr returns the value of the named attribute. An attribute with an
// empty key is the annotation's positional argument and matches "name".
func (m *Metadata) Attr(key string) string {
	for _, a := range m.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	if key == "name" {
		for _, a := range m.Attributes {
			if a.Key == "" {
				return a.Value
			}
		}
	}
	return ""
}

// Record is the documentation record of one declaration.
type Record struct {
	Key DeclarationKey
	// QualifiedName is the debug name the record was registered under.
	QualifiedName string
	Tags          *tags.TagSet
	Access        string
	CommentID     string

	// class and interface fields
	BaseClass      string
	Interfaces     []string
	BaseInterfaces []string
	IsFinal        bool
	IsDynamic      bool
	SourceFile     string

	// function fields
	Params     []Param
	ResultType string

	// field fields
	VarType      string
	IsConst      bool
	DefaultValue string

	Metadata []*Metadata
	Excluded bool
}

// Description returns the record's description, or "" when it has none.
func (r *Record) Description() string {
	if r == nil || r.Tags == nil {
		return ""
	}
	return r.Tags.Description
}

// IsPrivate reports whether the record is hidden with @private.
func (r *Record) IsPrivate() bool {
	return r.Tags != nil && r.Tags.Flag(tags.Private)
}

// MetadataNamed returns all metadata entries with the given name.
func (r *Record) MetadataNamed(name string) []*Metadata {
	var out []*Metadata
	for _, m := range r.Metadata {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// HasMetadata reports whether the record carries a metadata entry with the
// given name.
func (r *Record) HasMetadata(name string) bool {
	for _, m := range r.Metadata {
		if m.Name == name {
			return true
		}
	}
	return false
}

// ParamTypes returns the declared parameter types in order.
func (r *Record) ParamTypes() []string {
	types := make([]string, len(r.Params))
	for i, p := range r.Params {
		types[i] = p.Type
	}
	return types
}
