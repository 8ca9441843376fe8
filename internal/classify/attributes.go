package classify

import (
	"slices"

	"github.com/oxhq/rsmatch/internal/syntax"
)

// Built-in attributes, per
// https://doc.rust-lang.org/1.41.1/reference/attributes.html#built-in-attributes-index
var stdAttributes = map[string]struct{}{
	"cfg":      {},
	"cfg_attr": {},

	"test":         {},
	"ignore":       {},
	"should_panic": {},

	"derive": {},

	"macro_export":         {},
	"macro_use":            {},
	"proc_macro":           {},
	"proc_macro_derive":    {},
	"proc_macro_attribute": {},

	"allow":  {},
	"warn":   {},
	"deny":   {},
	"forbid": {},

	"deprecated": {},
	"must_use":   {},

	"link":         {},
	"link_name":    {},
	"no_link":      {},
	"repr":         {},
	"crate_type":   {},
	"no_main":      {},
	"export_name":  {},
	"link_section": {},
	"no_mangle":    {},
	"used":         {},
	"crate_name":   {},

	"inline":         {},
	"cold":           {},
	"no_builtins":    {},
	"target_feature": {},

	"doc": {},

	"no_std":              {},
	"no_implicit_prelude": {},

	"path": {},

	"recursion_limit":   {},
	"type_length_limit": {},

	"panic_handler":     {},
	"global_allocator":  {},
	"windows_subsystem": {},

	"non_exhaustive": {},

	// unstable
	"start": {},
}

var lintAttributes = map[string]struct{}{
	"allow":  {},
	"warn":   {},
	"deny":   {},
	"forbid": {},
}

// IsStdAttribute reports whether name is a built-in attribute.
func IsStdAttribute(name string) bool {
	_, ok := stdAttributes[name]
	return ok
}

// IsLintAttribute reports whether name sets a lint level.
func IsLintAttribute(name string) bool {
	_, ok := lintAttributes[name]
	return ok
}

// StdAttributes returns the built-in attribute names, sorted.
func StdAttributes() []string {
	names := make([]string, 0, len(stdAttributes))
	for n := range stdAttributes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// MetaItemPath returns the path text of a meta item, e.g. "clippy::all".
func MetaItemPath(meta syntax.Node) string {
	if p := pathChild(meta); p != nil {
		return p.Text()
	}
	return ""
}

// MetaItemName returns the last path segment of a meta item, e.g. "all"
// for `clippy::all`, or "" when meta is not a meta item.
func MetaItemName(meta syntax.Node) string {
	if meta == nil || meta.Kind() != syntax.MetaItem {
		return ""
	}
	p := pathChild(meta)
	if p == nil {
		return ""
	}
	cs := p.Children()
	for i := len(cs) - 1; i >= 0; i-- {
		if cs[i].Kind() == syntax.Identifier {
			return cs[i].Text()
		}
	}
	return ""
}

func pathChild(n syntax.Node) syntax.Node {
	for _, c := range n.Children() {
		if c.Kind() == syntax.Path {
			return c
		}
	}
	return nil
}

// AttrMetaItems lists the top-level meta item names of the attributes
// directly owned by item, in source order.
func AttrMetaItems(item syntax.Node) []string {
	if item == nil {
		return nil
	}
	var names []string
	for _, c := range item.Children() {
		if c.Kind() != syntax.OuterAttr && c.Kind() != syntax.InnerAttr {
			continue
		}
		for _, m := range c.Children() {
			if m.Kind() == syntax.MetaItem {
				names = append(names, MetaItemName(m))
			}
		}
	}
	return names
}

// MetaItemArgs lists the meta items inside the argument list of meta.
func MetaItemArgs(meta syntax.Node) []syntax.Node {
	var out []syntax.Node
	for _, c := range meta.Children() {
		if c.Kind() != syntax.MetaItemArgs {
			continue
		}
		for _, a := range c.Children() {
			if a.Kind() == syntax.MetaItem {
				out = append(out, a)
			}
		}
	}
	return out
}

// ConstantKind distinguishes const and static items.
type ConstantKind uint8

const (
	NotConstant ConstantKind = iota
	Const
	Static
	MutStatic
)

// ConstantKindOf classifies a Constant node by its keywords.
func ConstantKindOf(n syntax.Node) ConstantKind {
	if n == nil || n.Kind() != syntax.Constant {
		return NotConstant
	}
	kind := NotConstant
	for _, c := range n.Children() {
		if c.Kind() != syntax.Keyword {
			continue
		}
		switch c.Text() {
		case "const":
			if kind == NotConstant {
				kind = Const
			}
		case "static":
			kind = Static
		case "mut":
			if kind == Static {
				kind = MutStatic
			}
		}
	}
	return kind
}
