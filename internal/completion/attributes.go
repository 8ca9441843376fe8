package completion

import (
	"strings"

	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/registry"
	"github.com/oxhq/rsmatch/internal/syntax"
)

type attributeContext struct {
	on *pattern.Pattern
	// Space separated; a trailing "()" marks attributes that take arguments.
	names string
}

var attributeContexts = []attributeContext{
	{classify.OnCrate, "crate_name crate_type feature() no_builtins no_main no_start no_std plugin recursion_limit"},
	{classify.OnExternCrate, "macro_use macro_reexport no_link"},
	{classify.OnMod, "no_implicit_prelude path macro_use"},
	{classify.OnFn, "main plugin_registrar start test cold naked export_name link_section lang inline"},
	{classify.OnTestFn, "should_panic"},
	{classify.OnStaticMut, "thread_local"},
	{classify.OnExternBlock, "link_args link linked_from"},
	{classify.OnExternBlockDecl, "link_name linkage"},
	{classify.OnStruct, "repr unsafe_no_drop_flags derive"},
	{classify.OnEnum, "repr derive"},
	{classify.OnTrait, "rustc_on_unimplemented"},
	{classify.OnMacro, "macro_export"},
	{classify.OnStatic, "export_name link_section"},
	{classify.OnAnyItem, "no_mangle doc cfg() cfg_attr() allow() warn() forbid() deny()"},
	{classify.OnTupleStruct, "simd"},
	{classify.OnDropFn, "unsafe_destructor_blind_to_params"},
}

// The name of an outer or inner attribute: `#[na<caret>]`.
var attributePosition = pattern.Kind(syntax.Identifier).WithParent(
	pattern.Kind(syntax.Path).WithParent(
		pattern.Kind(syntax.MetaItem).WithParent(pattern.Kind(syntax.OuterAttr, syntax.InnerAttr)),
	),
)

func (c *Contributor) attributes(req registry.Request) ([]Item, error) {
	pos := req.Position
	seen := make(map[string]bool)
	for _, name := range classify.AttrMetaItems(syntax.SuperParent(pos, classify.MetaItemIdentifierDepth)) {
		seen[name] = true
	}

	var out []Item
	for _, ac := range attributeContexts {
		if !c.matcher.Match(ac.on, pos) {
			continue
		}
		for _, raw := range strings.Fields(ac.names) {
			name, args := strings.CutSuffix(raw, "()")
			if seen[name] {
				continue
			}
			seen[name] = true
			detail := "#[" + name + "]"
			if args {
				detail = "#[" + name + "(...)]"
			}
			out = append(out, Item{Label: name, Detail: detail})
		}
	}
	return out, nil
}
