package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asdoc/asdoc/docset"
	"github.com/dhamidi/asdoc/asdoc/doctree"
)

func newBuildCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the documentation tree from a descriptor stream",
		Long: `Build reads declaration descriptors, resolves inherited and
cross-referenced documentation, and writes the assembled tree.

Settings come from asdoc.yaml in the current directory or the file named
by --config; flags override them. Diagnostics are printed to stderr. With
--strict the tree is still written but the command fails when any
diagnostic was reported; --strict-errors ignores warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}

			descs, err := docset.LoadDescriptorFile(cfg.Path(cfg.Input))
			if err != nil {
				return err
			}

			res, buildErr := docset.Build(cmd.Context(), descs, cfg.DocsetOptions())
			if res == nil {
				return fmt.Errorf("build: %w", buildErr)
			}
			for _, e := range res.Diagnostics.Entries() {
				fmt.Fprintln(cmd.ErrOrStderr(), e)
			}

			if err := writeTree(cmd.OutOrStdout(), cfg.Path(cfg.Output), cfg.Format, res.Tree); err != nil {
				return err
			}
			if errors.Is(buildErr, docset.ErrDiagnostics) {
				return buildErr
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

// writeTree encodes tree to path, or to stdout when path is empty.
func writeTree(stdout io.Writer, path, format string, tree *doctree.Node) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc, err := doctree.NewEncoder(format, w)
	if err != nil {
		return err
	}
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
