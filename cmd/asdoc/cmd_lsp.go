package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asdoc/asdoc/codebase"
	"github.com/dhamidi/asdoc/project"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Serve hover documentation and workspace symbols over stdio.

The server reads asdoc.yaml from the workspace root and rebuilds the whole
documentation set whenever the descriptor file changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, loadCodebase)
			return server.RunStdio()
		},
	}
}

func loadCodebase(rootDir string) (*codebase.Codebase, error) {
	cfg, err := project.LoadFrom(rootDir)
	if err != nil {
		return nil, err
	}
	opts := cfg.DocsetOptions()
	opts.Strict = false
	c := codebase.New(cfg.Path(cfg.Input), opts)
	if err := c.Rebuild(context.Background()); err != nil {
		log.Warningf("%v", err)
	}
	log.Infof("serving %d declarations from %s", c.Len(), filepath.Base(c.Input()))
	return c, nil
}
