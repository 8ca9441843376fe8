package classify

import (
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/syntax"
)

// Named pairs a classifier with the name it is reported under.
type Named struct {
	Name    string
	Pattern *pattern.Pattern
}

// Catalog lists the exported classifiers in a stable order.
var Catalog = []Named{
	{"OnStruct", OnStruct},
	{"OnEnum", OnEnum},
	{"OnEnumVariant", OnEnumVariant},
	{"OnFn", OnFn},
	{"OnMod", OnMod},
	{"OnStatic", OnStatic},
	{"OnStaticMut", OnStaticMut},
	{"OnMacro", OnMacro},
	{"OnTupleStruct", OnTupleStruct},
	{"OnCrate", OnCrate},
	{"OnExternBlock", OnExternBlock},
	{"OnExternBlockDecl", OnExternBlockDecl},
	{"OnAnyItem", OnAnyItem},
	{"OnExternCrate", OnExternCrate},
	{"OnTrait", OnTrait},
	{"OnDropFn", OnDropFn},
	{"OnTestFn", OnTestFn},
	{"OnStructLike", OnStructLike},
	{"InAnyLoop", InAnyLoop},
	{"DerivedTraitMetaItem", DerivedTraitMetaItem},
	{"NonStdOuterAttributeMetaItem", NonStdOuterAttributeMetaItem},
	{"LintAttributeMetaItem", LintAttributeMetaItem},
	{"IncludeMacroLiteral", IncludeMacroLiteral},
	{"PathAttrLiteral", PathAttrLiteral},
	{"SimplePath", SimplePath},
	{"OnCfgOrAttrFeature", OnCfgOrAttrFeature},
	{"OnStatementBeginning", OnStatementBeginning},
	{"Whitespace", Whitespace},
	{"ErrorElement", ErrorElement},
}

// Classify returns the names of the catalog entries matching n.
func Classify(m *pattern.Matcher, n syntax.Node) []string {
	if m == nil {
		m = pattern.NewMatcher()
	}
	var names []string
	for _, c := range Catalog {
		if m.Match(c.Pattern, n) {
			names = append(names, c.Name)
		}
	}
	return names
}

// InAttribute reports whether n is part of an attribute or of the argument
// of `include!`.
func InAttribute(n syntax.Node) bool {
	for a := range syntax.Ancestors(n) {
		switch a.Kind() {
		case syntax.OuterAttr, syntax.InnerAttr, syntax.IncludeMacroArgument:
			return true
		}
	}
	return false
}
