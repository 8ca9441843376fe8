package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/syntax"
)

// annotation is a set of classifier names attached to a node of a file.
type annotation struct {
	Kind  syntax.Kind
	Start int
	End   int
	Names []string
}

func newAnnotateCmd(a *app) *cobra.Command {
	var (
		showDiff bool
		only     []string
	)
	cmd := &cobra.Command{
		Use:   "annotate FILE...",
		Short: "Mark attribute positions with the classifiers that match them",
		Long: `Classifies every node inside attributes and include! arguments. By default
each match is listed as file:line:col; --diff prints the file with the names
inlined as comments, in unified diff form.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.matcher()
			out := cmd.OutOrStdout()
			for _, path := range args {
				root, src, err := a.parser.ParseFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				anns := annotate(m, root, only)
				a.logger.Debug("annotated", zap.String("file", path), zap.Int("count", len(anns)))
				if showDiff {
					fmt.Fprint(out, annotationDiff(path, string(src), anns))
					continue
				}
				printAnnotations(out, path, src, anns)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show annotations as a unified diff")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Report only these classifiers")
	return cmd
}

// annotate classifies the nodes of root that sit inside attributes, in
// pre-order. A non-empty only restricts the reported names.
func annotate(m *pattern.Matcher, root syntax.Node, only []string) []annotation {
	starts := leafOffsets(root)
	var anns []annotation
	for n := range syntax.Descendants(root) {
		switch n.Kind() {
		case syntax.Identifier, syntax.MetaItem, syntax.LitExpr:
		default:
			continue
		}
		if !classify.InAttribute(n) {
			continue
		}
		names := classify.Classify(m, n)
		if len(only) > 0 {
			names = slices.DeleteFunc(names, func(name string) bool { return !slices.Contains(only, name) })
		}
		if len(names) == 0 {
			continue
		}
		last := syntax.LastLeaf(n)
		anns = append(anns, annotation{
			Kind:  n.Kind(),
			Start: starts[syntax.FirstLeaf(n)],
			End:   starts[last] + len(last.Text()),
			Names: names,
		})
	}
	return anns
}

// leafOffsets maps every leaf under root to its offset from the start of root.
func leafOffsets(root syntax.Node) map[syntax.Node]int {
	starts := make(map[syntax.Node]int)
	off := 0
	for l := range syntax.Leaves(root) {
		starts[l] = off
		off += len(l.Text())
	}
	return starts
}

func printAnnotations(out io.Writer, path string, src []byte, anns []annotation) {
	for _, an := range anns {
		line, col := lineCol(src, an.Start)
		fmt.Fprintf(out, "%s:%d:%d: %s %q %s\n", path, line, col,
			an.Kind, src[an.Start:an.End], green(strings.Join(an.Names, ", ")))
	}
}

// inline returns src with a `/*@names*/` comment after every annotated node.
func inline(src string, anns []annotation) string {
	ordered := slices.Clone(anns)
	slices.SortStableFunc(ordered, func(x, y annotation) int { return x.End - y.End })

	var sb strings.Builder
	last := 0
	for _, an := range ordered {
		sb.WriteString(src[last:an.End])
		fmt.Fprintf(&sb, "/*@%s*/", strings.Join(an.Names, ","))
		last = an.End
	}
	sb.WriteString(src[last:])
	return sb.String()
}

func annotationDiff(path, src string, anns []annotation) string {
	annotated := inline(src, anns)
	if annotated == src {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(src),
		B:        difflib.SplitLines(annotated),
		FromFile: path,
		ToFile:   path + " (annotated)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s (annotated)\n@@ %d annotations @@\n", path, path, len(anns))
	}
	return text
}
