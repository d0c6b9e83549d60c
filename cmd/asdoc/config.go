package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asdoc/project"
)

// configFlags are the flags shared by commands that run a batch. Flags the
// user sets override the configuration file.
type configFlags struct {
	config          string
	input           string
	output          string
	format          string
	strict          bool
	strictErrors    bool
	includePrivate  bool
	includeInternal bool
	parallelism     int
	exclude         []string
	examples        string
	rootClass       string
}

func (f *configFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "configuration file (default ./"+project.FileName+" when present)")
	fl.StringVarP(&f.input, "input", "i", "", "descriptor file, YAML or JSON")
	fl.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fl.StringVarP(&f.format, "format", "f", "xml", "output format (xml, json, yaml)")
	fl.BoolVar(&f.strict, "strict", false, "fail when any diagnostic is reported")
	fl.BoolVar(&f.strictErrors, "strict-errors", false, "fail only when an error diagnostic is reported")
	fl.BoolVar(&f.includePrivate, "include-private", false, "document private declarations")
	fl.BoolVar(&f.includeInternal, "include-internal", false, "document internal and namespaced declarations")
	fl.IntVarP(&f.parallelism, "jobs", "j", 0, "parallel tag parsing workers (0 = GOMAXPROCS)")
	fl.StringSliceVarP(&f.exclude, "exclude", "x", nil, "gitignore-style class path patterns to leave out")
	fl.StringVar(&f.examples, "examples", "", "root directory for @includeExample files")
	fl.StringVar(&f.rootClass, "root-class", "Object", "class that ends base class walks")
}

// load reads the configuration file, applies flag overrides and
// validates the result.
func (f *configFlags) load(cmd *cobra.Command) (*project.Config, error) {
	cfg, err := f.file()
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("input") {
		cfg.Input = absPath(f.input)
	}
	if fl.Changed("output") {
		cfg.Output = absPath(f.output)
	}
	if fl.Changed("format") {
		cfg.Format = f.format
	}
	if fl.Changed("strict") {
		cfg.Strict = f.strict
	}
	if fl.Changed("strict-errors") {
		cfg.StrictErrors = f.strictErrors
	}
	if fl.Changed("include-private") {
		cfg.IncludePrivate = f.includePrivate
	}
	if fl.Changed("include-internal") {
		cfg.IncludeInternal = f.includeInternal
	}
	if fl.Changed("jobs") {
		cfg.Parallelism = f.parallelism
	}
	if fl.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, f.exclude...)
	}
	if fl.Changed("examples") {
		cfg.ExamplesDir = absPath(f.examples)
	}
	if fl.Changed("root-class") {
		cfg.RootClass = f.rootClass
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *configFlags) file() (*project.Config, error) {
	if f.config != "" {
		return project.LoadFile(f.config)
	}
	cfg, err := project.Load()
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return project.Default(), nil
	}
	return nil, err
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
