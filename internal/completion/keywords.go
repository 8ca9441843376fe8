package completion

import (
	"slices"

	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/registry"
	"github.com/oxhq/rsmatch/internal/syntax"
)

var (
	itemKeywords      = []string{"const", "enum", "extern", "fn", "impl", "mod", "pub", "static", "struct", "trait", "type", "unsafe", "use"}
	statementKeywords = []string{"let", "return", "if", "match", "while", "loop", "for"}
	loopKeywords      = []string{"break", "continue"}
)

// A single-segment path at a statement boundary, or right after `pub`.
// Attribute arguments laid out one per line also start after a newline, so
// they are excluded.
var keywordPosition = pattern.Kind(syntax.Identifier).And(
	classify.SimplePath,
	pattern.Or(classify.OnStatementBeginning, classify.StatementBeginning("pub")),
	pattern.Not(pattern.With("inAttribute", classify.InAttribute)),
)

func (c *Contributor) keywords(req registry.Request) ([]Item, error) {
	pos := req.Position
	if classify.IsStatementBeginning(pos, "pub") {
		words := slices.DeleteFunc(slices.Clone(itemKeywords), func(w string) bool { return w == "pub" })
		return items("keyword", words...), nil
	}
	if syntax.AncestorOfKind(pos, syntax.Block) == nil {
		return items("keyword", itemKeywords...), nil
	}
	words := slices.Concat(statementKeywords, itemKeywords)
	if c.matcher.Match(classify.InAnyLoop, pos) {
		words = append(words, loopKeywords...)
	}
	return items("keyword", words...), nil
}
