package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/asdoc/asdoc/assemble"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("input: descriptors.yaml\n"))
	require.NoError(t, err)
	assert.Equal(t, "descriptors.yaml", cfg.Input)
	assert.Equal(t, "xml", cfg.Format)
	assert.Equal(t, "Object", cfg.RootClass)
	assert.Equal(t, 0, cfg.Parallelism)
}

func TestParseAllFields(t *testing.T) {
	cfg, err := Parse([]byte(`
title: Flex SDK
input: build/descriptors.json
output: out/asdoc.json
format: json
strict: true
includePrivate: true
includeInternal: true
parallelism: 8
exclude:
  - mx/internal/
  - "*Impl"
examplesDir: examples
rootClass: BaseObject
`))
	require.NoError(t, err)
	assert.Equal(t, "Flex SDK", cfg.Title)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 8, cfg.Parallelism)
	assert.Equal(t, []string{"mx/internal/", "*Impl"}, cfg.Exclude)
	assert.Equal(t, "BaseObject", cfg.RootClass)
}

func TestSymbolsReachDocsetOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
input: descriptors.yaml
strictErrors: true
symbols:
  mx.core:UIComponent:
    baseClass: mx.core:Container
  mx.core:Container:
    defaultProperty: children
`))
	require.NoError(t, err)

	opts := cfg.DocsetOptions()
	assert.True(t, opts.StrictErrors)
	assert.False(t, opts.Strict)
	require.NotNil(t, opts.Symbols)
	assert.Equal(t, "mx.core:Container", opts.Symbols.BaseClass("mx.core:UIComponent"))
	prop, ok := opts.Symbols.DefaultProperty("mx.core:Container")
	assert.True(t, ok)
	assert.Equal(t, "children", prop)
	_, ok = opts.Symbols.DefaultProperty("mx.core:UIComponent")
	assert.False(t, ok)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"missing input", "format: xml\n", "input is required"},
		{"bad format", "input: a.yaml\nformat: html\n", "format must be one of xml json yaml"},
		{"negative parallelism", "input: a.yaml\nparallelism: -1\n", "parallelism must be at least 0"},
		{"too much parallelism", "input: a.yaml\nparallelism: 65\n", "parallelism must be at most 64"},
		{"empty pattern", "input: a.yaml\nexclude: ['']\n", "exclude[0] is required"},
		{"unknown key", "input: a.yaml\ncolour: red\n", "decode config"},
		{"unknown symbol key", "input: a.yaml\nsymbols:\n  A:\n    base: B\n", "decode config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseReportsEveryField(t *testing.T) {
	_, err := Parse([]byte("format: html\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input is required")
	assert.Contains(t, err.Error(), "format must be one of")
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName),
		[]byte("input: descriptors.yaml\nexamplesDir: examples\n"), 0o644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, filepath.Join(dir, "descriptors.yaml"), cfg.Path(cfg.Input))
	assert.Equal(t, "/abs/file", cfg.Path("/abs/file"))

	opts := cfg.DocsetOptions()
	assert.Equal(t, assemble.DirExamples{Root: filepath.Join(dir, "examples")}, opts.Examples)
	assert.Equal(t, "Object", opts.RootClass)
}

func TestLoadMissing(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestDocsetOptionsWithoutExamples(t *testing.T) {
	cfg := Default()
	cfg.Input = "x.yaml"
	cfg.Exclude = []string{"mx/"}
	opts := cfg.DocsetOptions()
	assert.Nil(t, opts.Examples)
	assert.Nil(t, opts.Symbols)
	assert.Equal(t, []string{"mx/"}, opts.Exclude)
}
