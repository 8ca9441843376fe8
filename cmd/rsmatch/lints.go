package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oxhq/rsmatch/internal/lints"
)

func newLintsCmd(_ *app) *cobra.Command {
	var (
		prefix     string
		groupsOnly bool
	)
	cmd := &cobra.Command{
		Use:   "lints [name...]",
		Short: "Print the rustc lint table offered inside allow/warn/deny/forbid",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := lints.WithPrefix(prefix)
			if len(args) > 0 {
				table = table[:0:0]
				for _, name := range args {
					l, ok := lints.Find(name)
					if !ok {
						return fmt.Errorf("unknown lint %q", name)
					}
					table = append(table, l)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, l := range table {
				if groupsOnly && !l.IsGroup {
					continue
				}
				kind := "lint"
				if l.IsGroup {
					kind = yellow("group")
				}
				fmt.Fprintf(w, "%s\t%s\n", l.Name, kind)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only lints starting with this prefix (ignored when names are given)")
	cmd.Flags().BoolVar(&groupsOnly, "groups", false, "Only lint groups")
	return cmd
}
