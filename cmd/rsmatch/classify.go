package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/completion"
	"github.com/oxhq/rsmatch/internal/syntax"
)

func newClassifyCmd(a *app) *cobra.Command {
	var (
		offset int
		dump   bool
	)
	cmd := &cobra.Command{
		Use:   "classify FILE",
		Short: "Show which classifiers match the node at a position and its ancestors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := a.locate(cmd.Context(), args[0], offset, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			m := a.matcher()

			line, col := lineCol(pos.src, pos.offset)
			fmt.Fprintf(out, "%s:%d:%d\n", pos.path, line, col)
			for n := pos.leaf; n != nil; n = n.Parent() {
				names := classify.Classify(m, n)
				marker := " "
				if len(names) > 0 {
					marker = green("*")
				}
				fmt.Fprintf(out, "%s %-22s %-24q %s\n", marker, n.Kind(), snippet(n.Text(), 24), strings.Join(names, ", "))
			}
			if auto := completion.ShouldAutoTrigger(pos.leaf, ':'); auto {
				fmt.Fprintln(out, yellow("typing ':' here opens completion"))
			}
			if dump {
				fmt.Fprint(out, syntax.Dump(pos.root))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", -1, "Byte offset of the node")
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the whole syntax tree")
	return cmd
}

// snippet collapses whitespace and cuts s to at most max bytes on a rune
// boundary.
func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > max {
		return s[:runeCut(s, max-3)] + "..."
	}
	return s
}

// runeCut returns the largest index <= n that starts a rune of s.
func runeCut(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
