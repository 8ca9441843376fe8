package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oxhq/rsmatch/internal/tracestore"
)

var errNoTraceStore = errors.New("no trace store configured: pass --trace or set RSMATCH_TRACE_DSN")

func newFaultsCmd(a *app) *cobra.Command {
	var (
		limit   int
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "faults",
		Short: "Show condition and provider faults recorded with --trace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.TraceDSN == "" {
				return errNoTraceStore
			}
			db, err := tracestore.Connect(a.cfg.TraceDSN, a.cfg.TraceDebug)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if summary {
				rows, err := tracestore.Summarize(db)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\t%d\n", r.Source, bold(r.Name), r.Count)
				}
				return w.Flush()
			}

			faults, err := tracestore.Recent(db, limit)
			if err != nil {
				return err
			}
			for _, f := range faults {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					f.CreatedAt.Format("2006-01-02 15:04:05"), f.Source, bold(f.Name), f.NodeKind, red(f.Message))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of faults to show, 0 for all")
	cmd.Flags().BoolVar(&summary, "summary", false, "Count faults per condition or provider")
	return cmd
}
