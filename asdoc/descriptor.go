package asdoc

// Descriptor is one declaration as delivered by the extraction stage. The
// order of descriptors in a stream is significant: it breaks ties when two
// descriptors map to the same declaration key.
type Descriptor struct {
	QualifiedName string   `yaml:"name" json:"name"`
	Kind          Kind     `yaml:"kind" json:"kind"`
	RawTags       string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	Ancestors     []string `yaml:"ancestors,omitempty" json:"ancestors,omitempty"`
	Excluded      bool     `yaml:"excluded,omitempty" json:"excluded,omitempty"`
	Symbol        Symbol   `yaml:"symbol,omitempty" json:"symbol,omitempty"`
}

// Symbol carries the compiler-side facts about a declaration.
type Symbol struct {
	IsStatic  bool   `yaml:"static,omitempty" json:"static,omitempty"`
	Access    string `yaml:"access,omitempty" json:"access,omitempty"`
	CommentID string `yaml:"commentId,omitempty" json:"commentId,omitempty"`

	BaseClass      string   `yaml:"baseClass,omitempty" json:"baseClass,omitempty"`
	Interfaces     []string `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	BaseInterfaces []string `yaml:"baseInterfaces,omitempty" json:"baseInterfaces,omitempty"`
	IsFinal        bool     `yaml:"final,omitempty" json:"final,omitempty"`
	IsDynamic      bool     `yaml:"dynamic,omitempty" json:"dynamic,omitempty"`
	SourceFile     string   `yaml:"sourceFile,omitempty" json:"sourceFile,omitempty"`

	Params     []Param `yaml:"params,omitempty" json:"params,omitempty"`
	ResultType string  `yaml:"resultType,omitempty" json:"resultType,omitempty"`

	VarType      string `yaml:"type,omitempty" json:"type,omitempty"`
	IsConst      bool   `yaml:"const,omitempty" json:"const,omitempty"`
	DefaultValue string `yaml:"default,omitempty" json:"default,omitempty"`

	Metadata []MetadataDescriptor `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// MetadataDescriptor is a metadata annotation with its own optional comment.
type MetadataDescriptor struct {
	Name       string      `yaml:"name" json:"name"`
	Attributes []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	RawTags    string      `yaml:"tags,omitempty" json:"tags,omitempty"`
}
