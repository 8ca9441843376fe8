package completion

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/registry"
	"github.com/oxhq/rsmatch/internal/syntax"
)

var filePathPosition = pattern.Kind(syntax.StringLiteral).WithParent(
	pattern.Or(classify.PathAttrLiteral.Capture("modPath"), classify.IncludeMacroLiteral),
)

// filePaths offers files of the configured tree: Rust sources for
// `#[path]`, anything for `include!`.
func (c *Contributor) filePaths(req registry.Request) ([]Item, error) {
	if c.files == nil {
		return nil, nil
	}
	glob := "**/*"
	if _, ok := req.Captures.Get("modPath"); ok {
		glob = "**/*.rs"
	}
	matches, err := doublestar.Glob(c.files, glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", glob, err)
	}
	slices.Sort(matches)
	return items("file", matches...), nil
}
