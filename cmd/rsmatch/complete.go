package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxhq/rsmatch/internal/completion"
)

func newCompleteCmd(a *app) *cobra.Command {
	var (
		offset  int
		trigger string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "complete FILE",
		Short: "List the completions offered at a position",
		Long: `Computes the completion items at a byte offset of a Rust file. Without
--offset the position is the ` + completion.CaretMarker + ` marker in the file.`,
		Example: `  rsmatch complete src/lib.rs --offset 120
  rsmatch complete fixture.rs --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := a.locate(cmd.Context(), args[0], offset, true)
			if err != nil {
				return err
			}

			var ch rune
			if trigger != "" {
				ch = []rune(trigger)[0]
			}
			c := a.contributor()
			a.logger.Debug("completing",
				zap.String("file", pos.path),
				zap.Int("offset", pos.offset),
				zap.Stringer("kind", pos.leaf.Kind()),
				zap.Strings("providers", c.Matching(pos.leaf)))
			items := c.Complete(pos.leaf, ch)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, yellow("no completions"))
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", bold(it.Label), it.Detail, cyan(it.Provider))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&offset, "offset", -1, "Byte offset of the caret")
	cmd.Flags().StringVar(&trigger, "trigger", "", "Character that triggered completion")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output items as JSON")
	return cmd
}
