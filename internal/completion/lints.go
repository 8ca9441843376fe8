package completion

import (
	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/lints"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/registry"
	"github.com/oxhq/rsmatch/internal/syntax"
)

// A lint name inside allow/warn/deny/forbid. Qualified paths such as
// `clippy::all` belong to tool lints and are not offered rustc names.
var lintPosition = pattern.Kind(syntax.Identifier).
	WithParent(pattern.Kind(syntax.Path).With("unqualifiedPath", func(n syntax.Node) bool {
		for _, c := range n.Children() {
			if c.Kind() == syntax.Path || c.Kind() == syntax.ColonColon {
				return false
			}
		}
		return true
	})).
	WithSuperParent(2, pattern.Kind(syntax.MetaItem).WithSuperParent(2, classify.LintAttributeMetaItem))

func (c *Contributor) rustcLints(registry.Request) ([]Item, error) {
	out := make([]Item, 0, len(lints.Rustc))
	for _, l := range lints.Rustc {
		detail := "lint"
		if l.IsGroup {
			detail = "lint group"
		}
		out = append(out, Item{Label: l.Name, Detail: detail})
	}
	return out, nil
}
