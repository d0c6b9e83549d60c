// Package tags parses the tag blocks extracted from ASDoc comments.
//
// A raw comment arrives as a sequence of top-level blocks,
// <description>...</description> followed by one block per tag
// (<param>...</param>, <see>...</see>, <private/>, ...). Bodies may carry
// their own markup and CDATA sections.
package tags

import "strings"

// Recognized tag names.
const (
	Description    = "description"
	Param          = "param"
	Return         = "return"
	See            = "see"
	Private        = "private"
	InheritDoc     = "inheritDoc"
	Throws         = "throws"
	Author         = "author"
	Default        = "default"
	Event          = "event"
	EventType      = "eventType"
	Example        = "example"
	IncludeExample = "includeExample"
	Internal       = "internal"
	LangVersion    = "langversion"
	PlayerVersion  = "playerversion"
	ProductVersion = "productversion"
	Review         = "review"
	Since          = "since"
	TipText        = "tiptext"
	ToolVersion    = "toolversion"
	Copy           = "copy"
)

// Shape is the value shape of a recognized tag, fixed per tag name.
type Shape int

const (
	// ShapeSingle tags keep their first occurrence.
	ShapeSingle Shape = iota
	// ShapeList tags keep every occurrence in document order.
	ShapeList
	// ShapeFlag tags only record presence.
	ShapeFlag
)

var shapes = map[string]Shape{
	Param:          ShapeList,
	Return:         ShapeSingle,
	See:            ShapeList,
	Private:        ShapeFlag,
	InheritDoc:     ShapeFlag,
	Throws:         ShapeList,
	Author:         ShapeList,
	Default:        ShapeSingle,
	Event:          ShapeSingle,
	EventType:      ShapeSingle,
	Example:        ShapeList,
	IncludeExample: ShapeList,
	Internal:       ShapeSingle,
	LangVersion:    ShapeSingle,
	PlayerVersion:  ShapeList,
	ProductVersion: ShapeList,
	Review:         ShapeFlag,
	Since:          ShapeSingle,
	TipText:        ShapeSingle,
	ToolVersion:    ShapeSingle,
	Copy:           ShapeSingle,
}

// canonical maps lower-cased spellings to the recognized tag name.
var canonical = func() map[string]string {
	m := make(map[string]string, len(shapes))
	for name := range shapes {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// Lookup returns the canonical name and shape of a recognized tag.
func Lookup(name string) (string, Shape, bool) {
	c, ok := canonical[strings.ToLower(name)]
	if !ok {
		return "", 0, false
	}
	return c, shapes[c], true
}

// Value is the parsed value of one recognized tag. Exactly one of the
// fields is meaningful, selected by Shape.
type Value struct {
	Shape   Shape
	Text    string
	Items   []string
	Present bool
}

// CustomTag holds every occurrence of a tag this package does not
// recognize.
type CustomTag struct {
	Name   string
	Values []string
}

// TagSet is the structured form of one raw comment.
type TagSet struct {
	Description string
	values      map[string]Value
	order       []string
	Custom      []CustomTag
}

func newTagSet() *TagSet {
	return &TagSet{values: make(map[string]Value)}
}

// Empty returns a tag set without description or tags.
func Empty() *TagSet {
	return newTagSet()
}

// Get returns the value of a recognized tag.
func (s *TagSet) Get(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Single returns the text of a single-valued tag, or "".
func (s *TagSet) Single(name string) string {
	v, _ := s.Get(name)
	return v.Text
}

// List returns the occurrences of a multi-valued tag.
func (s *TagSet) List(name string) []string {
	v, _ := s.Get(name)
	return v.Items
}

// Flag reports whether a presence tag was given.
func (s *TagSet) Flag(name string) bool {
	v, _ := s.Get(name)
	return v.Present
}

// Has reports whether the tag occurred at all.
func (s *TagSet) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Names returns the recognized tags present, in order of first occurrence.
func (s *TagSet) Names() []string {
	if s == nil {
		return nil
	}
	return s.order
}

// Set replaces the value of a recognized tag.
func (s *TagSet) Set(name string, v Value) {
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = v
}

// Delete removes a recognized tag.
func (s *TagSet) Delete(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// CustomValues returns the occurrences of an unrecognized tag.
func (s *TagSet) CustomValues(name string) []string {
	if s == nil {
		return nil
	}
	for _, c := range s.Custom {
		if c.Name == name {
			return c.Values
		}
	}
	return nil
}

func (s *TagSet) addCustom(name, text string) {
	for i := range s.Custom {
		if s.Custom[i].Name == name {
			s.Custom[i].Values = append(s.Custom[i].Values, text)
			return
		}
	}
	s.Custom = append(s.Custom, CustomTag{Name: name, Values: []string{text}})
}

// Clone returns a deep copy.
func (s *TagSet) Clone() *TagSet {
	if s == nil {
		return newTagSet()
	}
	c := newTagSet()
	c.Description = s.Description
	for _, name := range s.order {
		v := s.values[name]
		v.Items = append([]string(nil), v.Items...)
		c.Set(name, v)
	}
	for _, ct := range s.Custom {
		c.Custom = append(c.Custom, CustomTag{Name: ct.Name, Values: append([]string(nil), ct.Values...)})
	}
	return c
}
