// Package classify is the library of structural Rust patterns: which item an
// attribute is written on, derive targets, lint and cfg attributes, simple
// paths, loops and statement boundaries.
package classify

import (
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/syntax"
)

// MetaItemIdentifierDepth is the distance from an identifier naming an
// attribute to the item carrying it: Identifier, Path, MetaItem, Attr, item.
const MetaItemIdentifierDepth = 4

var (
	anyAttr       = pattern.Kind(syntax.OuterAttr, syntax.InnerAttr)
	outerAttrOwns = pattern.With("outerAttributeOwner", func(n syntax.Node) bool { return n.Kind().IsItem() })
	attrOwner     = pattern.With("attributeOwner", func(n syntax.Node) bool { return n.Kind().IsAttributeOwner() })
)

var (
	OnStruct      = onItem(pattern.Kind(syntax.StructItem))
	OnEnum        = onItem(pattern.Kind(syntax.EnumItem))
	OnEnumVariant = onItem(pattern.Kind(syntax.EnumVariant))
	OnFn          = onItem(pattern.Kind(syntax.Function))
	OnMod         = onItem(pattern.Kind(syntax.ModItem)).Or(onItem(pattern.Kind(syntax.ModDeclItem)))

	OnStatic = onItem(pattern.Kind(syntax.Constant).With("onStaticCondition", func(n syntax.Node) bool {
		return ConstantKindOf(n) == Static
	}))
	OnStaticMut = onItem(pattern.Kind(syntax.Constant).With("onStaticMutCondition", func(n syntax.Node) bool {
		return ConstantKindOf(n) == MutStatic
	}))

	OnMacro       = onItem(pattern.Kind(syntax.Macro))
	OnTupleStruct = onItem(pattern.Kind(syntax.StructItem).WithChild(pattern.Kind(syntax.TupleFields)))

	OnCrate = onItem(pattern.Kind(syntax.File).With("onCrateCondition", func(n syntax.Node) bool {
		root, ok := n.(syntax.CrateRoot)
		return ok && root.IsCrateRoot()
	}))

	OnExternBlock = onItem(pattern.Kind(syntax.ForeignModItem))
	// TODO: require the function or constant to live inside an extern block.
	OnExternBlockDecl = pattern.Or(
		onItem(pattern.Kind(syntax.Function)),
		onItem(pattern.Kind(syntax.Constant)),
		onItem(pattern.Kind(syntax.ForeignModItem)),
	)
	OnAnyItem     = onItem(attrOwner)
	OnExternCrate = onItem(pattern.Kind(syntax.ExternCrateItem))
	OnTrait       = onItem(pattern.Kind(syntax.TraitItem))

	// OnDropFn matches attributes on a method of `impl Drop for T`.
	OnDropFn = pattern.WithSuperParent(MetaItemIdentifierDepth+2,
		pattern.Kind(syntax.ImplItem).WithChild(pattern.Kind(syntax.TraitRef).WithText("Drop")))

	OnTestFn = onItem(pattern.Kind(syntax.Function).
			WithChild(pattern.Kind(syntax.OuterAttr).WithText("#[test]")))

	OnStructLike = pattern.Or(OnStruct, OnEnum, OnEnumVariant)
)

// InAnyLoop matches positions inside a loop body without crossing a closure.
var InAnyLoop = pattern.Inside(true,
	pattern.Kind(syntax.Block).WithParent(pattern.Kind(syntax.ForExpr, syntax.LoopExpr, syntax.WhileExpr)),
	pattern.Kind(syntax.LambdaExpr),
)

// DerivedTraitMetaItem matches `Debug` in `#[derive(Debug)]` on a struct or
// enum.
var DerivedTraitMetaItem = pattern.Kind(syntax.MetaItem).WithSuperParent(2,
	pattern.Any().
		WithSuperParent(2, pattern.Kind(syntax.StructItem, syntax.EnumItem)).
		With("deriveCondition", func(n syntax.Node) bool {
			return n.Kind() == syntax.MetaItem && MetaItemName(n) == "derive"
		}),
)

// NonStdOuterAttributeMetaItem captures outer attribute names like
// `attribute` in `#[attribute(par1, par2)]` that are not built in.
var NonStdOuterAttributeMetaItem = pattern.Kind(syntax.MetaItem).
	WithSuperParent(2, outerAttrOwns).
	With("nonStdAttributeCondition", func(n syntax.Node) bool {
		return !IsStdAttribute(MetaItemName(n))
	})

// LintAttributeMetaItem matches the allow/warn/deny/forbid meta item itself.
var LintAttributeMetaItem = pattern.Kind(syntax.MetaItem).
	WithParent(anyAttr).
	With("lintAttributeCondition", func(n syntax.Node) bool {
		return IsLintAttribute(MetaItemName(n))
	})

// IncludeMacroLiteral matches the literal in `include!("...")`.
var IncludeMacroLiteral = pattern.Kind(syntax.LitExpr).
	WithParent(pattern.Kind(syntax.IncludeMacroArgument))

// PathAttrLiteral matches the literal in `#[path = "..."] mod m;`.
var PathAttrLiteral = pattern.Kind(syntax.LitExpr).WithParent(
	pattern.Kind(syntax.MetaItem).
		WithSuperParent(2, pattern.Kind(syntax.ModDeclItem, syntax.ModItem)).
		With("pathAttrCondition", func(n syntax.Node) bool { return MetaItemName(n) == "path" }),
)

// SimplePath matches a leaf whose parent is an unqualified, single segment
// path outside of use declarations.
var SimplePath = pattern.WithParent(
	pattern.Kind(syntax.Path).With("SimplePath", isSimplePath),
)

var (
	Whitespace   = pattern.Kind(syntax.Whitespace)
	ErrorElement = pattern.Kind(syntax.Error)
)

// `#[cfg()]`
var onCfgAttributeMeta = metaItem("cfg").WithParent(anyAttr)

// `#[cfg_attr()]`
var onCfgAttrAttributeMeta = metaItem("cfg_attr").WithParent(anyAttr)

// `#[doc(cfg())]`
var onDocCfgAttributeMeta = metaItem("cfg").
	WithSuperParent(2, metaItem("doc")).
	WithSuperParent(3, anyAttr)

// The condition of `#[cfg_attr(condition, attr)]`; attributes after the
// first argument are applied conditionally and are not part of it.
var onCfgAttrCondition = pattern.Kind(syntax.MetaItem).
	WithSuperParent(2, onCfgAttrAttributeMeta).
	With("firstItem", isFirstArgument)

// OnCfgOrAttrFeature matches `"x"` in `feature = "x"` inside a cfg
// condition.
var OnCfgOrAttrFeature = pattern.Kind(syntax.LitExpr).
	WithParent(metaItem("feature")).
	Inside(false, pattern.Or(onCfgAttributeMeta, onCfgAttrCondition, onDocCfgAttributeMeta), nil)

func onItem(item *pattern.Pattern) *pattern.Pattern {
	return pattern.WithSuperParent(MetaItemIdentifierDepth, item)
}

func metaItem(key string) *pattern.Pattern {
	return pattern.Kind(syntax.MetaItem).WithChild(pattern.Kind(syntax.Path).WithText(key))
}

func isFirstArgument(n syntax.Node) bool {
	args := n.Parent()
	if args == nil || args.Kind() != syntax.MetaItemArgs {
		return false
	}
	for _, c := range args.Children() {
		if c.Kind() == syntax.MetaItem {
			return c == n
		}
	}
	return false
}

func isSimplePath(path syntax.Node) bool {
	segments := 0
	for _, c := range path.Children() {
		switch c.Kind() {
		case syntax.Identifier:
			segments++
		case syntax.Whitespace, syntax.LineComment, syntax.BlockComment:
		default:
			return false
		}
	}
	return segments == 1 && syntax.AncestorOfKind(path, syntax.UseSpeck) == nil
}
