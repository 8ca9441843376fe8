package completion

import (
	"strings"

	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/registry"
	"github.com/oxhq/rsmatch/internal/syntax"
)

type derivable struct {
	name string
	deps []string
}

// Std traits that #[derive] supports, with the traits each one requires.
var derivableTraits = []derivable{
	{"Eq", []string{"PartialEq"}},
	{"PartialEq", nil},
	{"Ord", []string{"PartialOrd", "Eq", "PartialEq"}},
	{"PartialOrd", []string{"PartialEq"}},
	{"Hash", nil},
	{"Debug", nil},
	{"Clone", nil},
	{"Copy", []string{"Clone"}},
	{"Default", nil},
}

var derivePosition = pattern.Kind(syntax.Identifier).WithParent(
	pattern.Kind(syntax.Path).WithParent(classify.DerivedTraitMetaItem.Capture("trait")),
)

func (c *Contributor) derive(req registry.Request) ([]Item, error) {
	current := req.Captures.Node("trait")
	present := make(map[string]bool)
	for _, m := range classify.MetaItemArgs(syntax.SuperParent(current, 2)) {
		if m != current {
			present[classify.MetaItemName(m)] = true
		}
	}

	var out []Item
	for _, d := range derivableTraits {
		if present[d.name] {
			continue
		}
		out = append(out, Item{Label: d.name, Detail: "derive"})
		var missing []string
		for _, dep := range d.deps {
			if !present[dep] {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			label := d.name + ", " + strings.Join(missing, ", ")
			out = append(out, Item{Label: label, Detail: "derive with dependencies"})
		}
	}
	return out, nil
}
