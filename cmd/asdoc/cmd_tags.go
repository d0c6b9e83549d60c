package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/asdoc/asdoc/diag"
	"github.com/dhamidi/asdoc/asdoc/tags"
)

type tagReport struct {
	Description string     `yaml:"description,omitempty"`
	Tags        []tagEntry `yaml:"tags,omitempty"`
	Custom      []tagEntry `yaml:"custom,omitempty"`
	Diagnostics []string   `yaml:"diagnostics,omitempty"`
}

type tagEntry struct {
	Name    string   `yaml:"name"`
	Text    string   `yaml:"text,omitempty"`
	Items   []string `yaml:"items,omitempty"`
	Present bool     `yaml:"present,omitempty"`
}

func newTagsCmd() *cobra.Command {
	var outputFormat string
	var owner string

	cmd := &cobra.Command{
		Use:   "tags [file]",
		Short: "Parse a raw comment tag string and show its structure",
		Long: `Parse a raw comment tag string such as
<description>...</description><param>...</param><private/>
read from a file or stdin.

The yaml format shows the parsed tag set with its diagnostics; the raw
format prints the canonical block form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 0 {
				raw, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				raw, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			var diags diag.List
			set := tags.Parse(string(raw), owner, &diags)

			switch outputFormat {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(report(set, &diags)); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				return enc.Close()
			case "raw":
				for _, e := range diags.Entries() {
					fmt.Fprintln(cmd.ErrOrStderr(), e)
				}
				fmt.Fprintln(cmd.OutOrStdout(), tags.Format(set))
				return nil
			default:
				return fmt.Errorf("unknown format: %s (expected yaml or raw)", outputFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "output format (yaml, raw)")
	cmd.Flags().StringVar(&owner, "owner", "", "declaration name used in diagnostics")

	return cmd
}

func report(set *tags.TagSet, diags *diag.List) tagReport {
	r := tagReport{Description: set.Description}
	for _, name := range set.Names() {
		v, _ := set.Get(name)
		r.Tags = append(r.Tags, tagEntry{Name: name, Text: v.Text, Items: v.Items, Present: v.Present})
	}
	for _, c := range set.Custom {
		r.Custom = append(r.Custom, tagEntry{Name: c.Name, Items: c.Values})
	}
	for _, e := range diags.Entries() {
		r.Diagnostics = append(r.Diagnostics, e.String())
	}
	return r
}
