package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/scanner"
	"github.com/oxhq/rsmatch/internal/syntax"
)

// fileStats summarizes one parsed file.
type fileStats struct {
	Path       string
	Items      int
	Attributes int
	Errors     int
}

func newScanCmd(a *app) *cobra.Command {
	var cfg scanner.Config
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Parse every Rust file below the given paths and report what was found",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.cfg.Root}
			}
			files, err := scanner.New(cfg).ScanTargets(cmd.Context(), args)
			if err != nil {
				return err
			}
			stats := a.scanFiles(cmd.Context(), files)
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	addScanFlags(cmd.Flags(), &cfg)
	return cmd
}

// addScanFlags binds the file discovery options of cfg to flags.
func addScanFlags(flags *pflag.FlagSet, cfg *scanner.Config) {
	flags.StringSliceVar(&cfg.IncludeGlobs, "include", nil, "Include file patterns (doublestar glob)")
	flags.StringSliceVar(&cfg.ExcludeGlobs, "exclude", nil, "Exclude file patterns (doublestar glob)")
	flags.BoolVar(&cfg.NoGitignore, "no-gitignore", false, "Disable .gitignore filtering")
	flags.Int64Var(&cfg.MaxBytes, "max-bytes", 5*1024*1024, "Maximum file size to process")
	flags.BoolVar(&cfg.FollowSymlinks, "follow-symlinks", false, "Follow symbolic links during traversal")
}

func (a *app) scanFiles(ctx context.Context, files []string) []fileStats {
	m := a.matcher()
	var stats []fileStats
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		root, _, err := a.parser.ParseFile(ctx, path)
		if err != nil {
			a.logger.Error("failed to parse file", zap.String("path", path), zap.Error(err))
			continue
		}
		s := countNodes(m, root)
		s.Path = path
		stats = append(stats, s)
	}
	return stats
}

func countNodes(m *pattern.Matcher, root syntax.Node) fileStats {
	var s fileStats
	for n := range syntax.Descendants(root) {
		switch {
		case n.Kind().IsItem():
			s.Items++
		case n.Kind() == syntax.OuterAttr || n.Kind() == syntax.InnerAttr:
			s.Attributes++
		case m.Match(classify.ErrorElement, n):
			s.Errors++
		}
	}
	return s
}

func printStats(out io.Writer, stats []fileStats) {
	var total fileStats
	for _, s := range stats {
		errs := fmt.Sprint(s.Errors)
		if s.Errors > 0 {
			errs = red(errs)
		}
		fmt.Fprintf(out, "%s: %d items, %d attributes, %s errors\n", s.Path, s.Items, s.Attributes, errs)
		total.Items += s.Items
		total.Attributes += s.Attributes
		total.Errors += s.Errors
	}
	fmt.Fprintf(out, "%s %d files, %d items, %d attributes, %d errors\n",
		bold("total:"), len(stats), total.Items, total.Attributes, total.Errors)
}
