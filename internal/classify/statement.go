package classify

import (
	"slices"
	"strings"

	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/syntax"
)

var statementBoundaries = syntax.NewKindSet(syntax.Semicolon, syntax.LBrace, syntax.RBrace)

// PrevVisibleOrNewline returns the nearest preceding leaf that is neither a
// comment, an error element, nor whitespace without a line break.
func PrevVisibleOrNewline(n syntax.Node) syntax.Node {
	for l := range syntax.LeftLeaves(n) {
		switch k := l.Kind(); {
		case k.IsComment(), k == syntax.Error:
			continue
		case k == syntax.Whitespace && !strings.Contains(l.Text(), "\n"):
			continue
		}
		return l
	}
	return nil
}

// IsStatementBeginning reports whether n starts a statement. With no words,
// n must follow the start of the file, a line break, `;`, `{` or `}`. With
// words, the preceding significant token must be one of them instead.
func IsStatementBeginning(n syntax.Node, words ...string) bool {
	prev := PrevVisibleOrNewline(n)
	if len(words) == 0 {
		return prev == nil || prev.Kind() == syntax.Whitespace || statementBoundaries.Contains(prev.Kind())
	}
	return prev != nil && slices.Contains(words, prev.Text())
}

// OnStatementBeginning matches positions at a statement boundary.
var OnStatementBeginning = pattern.With("on statement beginning", func(n syntax.Node) bool {
	return IsStatementBeginning(n)
})

// StatementBeginning matches positions right after one of words.
func StatementBeginning(words ...string) *pattern.Pattern {
	words = slices.Clone(words)
	return pattern.With("on statement beginning", func(n syntax.Node) bool {
		return IsStatementBeginning(n, words...)
	})
}
