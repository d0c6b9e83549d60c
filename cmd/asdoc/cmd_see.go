package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/docset"
	"github.com/dhamidi/asdoc/asdoc/xref"
)

func newSeeCmd() *cobra.Command {
	var flags configFlags
	var from string

	cmd := &cobra.Command{
		Use:   "see <reference>...",
		Short: "Resolve @see references against a documentation set",
		Example: `  asdoc see -i descriptors.yaml --from mx.controls:Button '#setStyle()'
  asdoc see -i descriptors.yaml 'mx.events.FlexEvent#event:creationComplete Creation'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			descs, err := docset.LoadDescriptorFile(cfg.Path(cfg.Input))
			if err != nil {
				return err
			}
			opts := cfg.DocsetOptions()
			opts.Strict = false
			res, err := docset.Build(cmd.Context(), descs, opts)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}

			var diags diag.List
			refs := xref.New(res.Registry, &diags)
			out := cmd.OutOrStdout()
			for _, raw := range args {
				link := refs.ResolveSee(raw, from)
				fmt.Fprintf(out, "%s\n", raw)
				fmt.Fprintf(out, "  label: %s\n", link.Label)
				if link.InvalidHref != "" {
					fmt.Fprintf(out, "  unresolved, guessed href: %s\n", link.InvalidHref)
					continue
				}
				fmt.Fprintf(out, "  href:  %s\n", link.Href)
				ref, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
				if target, ok := refs.Locate(ref, from); ok {
					for _, rec := range refs.Records(target) {
						fmt.Fprintf(out, "  %s %s\n", rec.Key.Kind, rec.QualifiedName)
					}
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "class the references are written in")

	return cmd
}
