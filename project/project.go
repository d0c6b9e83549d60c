// Package project loads the asdoc.yaml configuration of a documentation
// set.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/asdoc/asdoc/assemble"
	"github.com/dhamidi/asdoc/asdoc/docset"
	"github.com/dhamidi/asdoc/asdoc/inherit"
)

// FileName is the configuration file looked up by Load.
const FileName = "asdoc.yaml"

// Config describes one documentation set.
type Config struct {
	Title string `yaml:"title"`
	// Input is the descriptor stream, YAML or JSON.
	Input  string `yaml:"input" validate:"required"`
	Output string `yaml:"output"`
	Format string `yaml:"format" validate:"oneof=xml json yaml"`

	// Strict fails the build on any diagnostic, StrictErrors on error
	// diagnostics only.
	Strict          bool `yaml:"strict"`
	StrictErrors    bool `yaml:"strictErrors"`
	IncludePrivate  bool `yaml:"includePrivate"`
	IncludeInternal bool `yaml:"includeInternal"`
	Parallelism     int  `yaml:"parallelism" validate:"min=0,max=64"`

	Exclude     []string `yaml:"exclude" validate:"dive,required"`
	ExamplesDir string   `yaml:"examplesDir"`
	RootClass   string   `yaml:"rootClass" validate:"required"`

	// Symbols describes framework classes outside the documented set,
	// keyed by debug class name.
	Symbols map[string]Symbol `yaml:"symbols" validate:"dive,keys,required,endkeys"`

	// Dir is the directory holding the configuration file. Relative paths
	// are resolved against it.
	Dir string `yaml:"-"`
}

// Symbol is what the documentation set needs to know about an external
// class: where its base class walk continues and its [DefaultProperty].
type Symbol struct {
	BaseClass       string `yaml:"baseClass"`
	DefaultProperty string `yaml:"defaultProperty"`
}

// Default returns a configuration with every optional field set.
func Default() *Config {
	return &Config{
		Format:    "xml",
		RootClass: "Object",
		Dir:       ".",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads asdoc.yaml from the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads asdoc.yaml from dir.
func LoadFrom(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads and validates a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes and validates configuration data. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, reporting every invalid field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", field, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s, got %v", field, fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// Path resolves p against the configuration directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// DocsetOptions translates the configuration into batch options.
func (c *Config) DocsetOptions() docset.Options {
	opts := docset.Options{
		Strict:          c.Strict,
		StrictErrors:    c.StrictErrors,
		IncludePrivate:  c.IncludePrivate,
		IncludeInternal: c.IncludeInternal,
		Parallelism:     c.Parallelism,
		Exclude:         c.Exclude,
		RootClass:       c.RootClass,
	}
	if c.ExamplesDir != "" {
		opts.Examples = assemble.DirExamples{Root: c.Path(c.ExamplesDir)}
	}
	if len(c.Symbols) > 0 {
		syms := inherit.MapSymbols{Bases: map[string]string{}, Defaults: map[string]string{}}
		for name, s := range c.Symbols {
			if s.BaseClass != "" {
				syms.Bases[name] = s.BaseClass
			}
			if s.DefaultProperty != "" {
				syms.Defaults[name] = s.DefaultProperty
			}
		}
		opts.Symbols = syms
	}
	return opts
}
