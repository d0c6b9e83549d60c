package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asdoc/asdoc/qname"
)

func newDecomposeCmd() *cobra.Command {
	var class bool

	cmd := &cobra.Command{
		Use:   "decompose <name>...",
		Short: "Split compiler debug names into package, classes and member",
		Example: `  asdoc decompose mx.controls:Button/label/get
  asdoc decompose --class 'mx.core:Helper247$Inner'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, name := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				var info qname.Info
				if class {
					info = qname.ParseClass(name)
				} else {
					info = qname.ParseMember(name)
				}
				printInfo(out, name, info)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&class, "class", false, "treat names as class names rather than member names")

	return cmd
}

func printInfo(w io.Writer, name string, info qname.Info) {
	fmt.Fprintf(w, "name:       %s\n", name)
	fmt.Fprintf(w, "package:    %s\n", info.Package)
	fmt.Fprintf(w, "classes:    %s\n", strings.Join(info.ClassNames, " / "))
	fmt.Fprintf(w, "namespaces: %s\n", strings.Join(info.ClassNamespaces, " / "))
	fmt.Fprintf(w, "class:      %s\n", info.FullClassName)
	if info.MethodName != "" {
		fmt.Fprintf(w, "member:     %s\n", info.MethodName)
		fmt.Fprintf(w, "namespace:  %s\n", info.MethodNamespace)
		fmt.Fprintf(w, "accessor:   %s\n", info.Accessor)
		fmt.Fprintf(w, "canonical:  %s\n", qname.Member(info.FullClassName, info.MethodNamespace, info.MethodName, info.Accessor))
	}
}
