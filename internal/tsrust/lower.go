package tsrust

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/rsmatch/internal/syntax"
)

// draft is a mutable node used while lowering; it becomes an immutable
// syntax.Element once complete.
type draft struct {
	kind     syntax.Kind
	text     string
	children []*draft
}

func leaf(k syntax.Kind, text string) *draft { return &draft{kind: k, text: text} }

func node(k syntax.Kind, children ...*draft) *draft { return &draft{kind: k, children: children} }

func (d *draft) element() *syntax.Element {
	if d.kind.IsLeaf() {
		return syntax.NewLeaf(d.kind, d.text)
	}
	children := make([]*syntax.Element, len(d.children))
	for i, c := range d.children {
		children[i] = c.element()
	}
	return syntax.NewNode(d.kind, children...)
}

// Named tree-sitter nodes lowered one to one.
var composites = map[string]syntax.Kind{
	"attribute_item":                 syntax.OuterAttr,
	"inner_attribute_item":           syntax.InnerAttr,
	"struct_item":                    syntax.StructItem,
	"union_item":                     syntax.StructItem,
	"enum_item":                      syntax.EnumItem,
	"enum_variant_list":              syntax.EnumBody,
	"enum_variant":                   syntax.EnumVariant,
	"function_item":                  syntax.Function,
	"function_signature_item":        syntax.Function,
	"const_item":                     syntax.Constant,
	"static_item":                    syntax.Constant,
	"trait_item":                     syntax.TraitItem,
	"foreign_mod_item":               syntax.ForeignModItem,
	"extern_crate_declaration":       syntax.ExternCrateItem,
	"macro_definition":               syntax.Macro,
	"use_declaration":                syntax.UseItem,
	"field_declaration_list":         syntax.BlockFields,
	"ordered_field_declaration_list": syntax.TupleFields,
	"declaration_list":               syntax.Members,
	"block":                          syntax.Block,
	"expression_statement":           syntax.ExprStmt,
	"let_declaration":                syntax.LetDecl,
	"for_expression":                 syntax.ForExpr,
	"loop_expression":                syntax.LoopExpr,
	"while_expression":               syntax.WhileExpr,
	"closure_expression":             syntax.LambdaExpr,
	"ERROR":                          syntax.Error,
}

var tokens = map[string]syntax.Kind{
	";":  syntax.Semicolon,
	":":  syntax.Colon,
	"::": syntax.ColonColon,
	",":  syntax.Comma,
	"=":  syntax.Eq,
	"#":  syntax.Pound,
	"!":  syntax.Excl,
	"{":  syntax.LBrace,
	"}":  syntax.RBrace,
	"(":  syntax.LParen,
	")":  syntax.RParen,
	"[":  syntax.LBrack,
	"]":  syntax.RBrack,
}

// lowerer turns a tree-sitter Rust CST into the syntax tree shape the
// classifiers expect: whitespace as leaves, outer attributes as leading
// children of what they annotate, attribute arguments as meta items.
type lowerer struct {
	src []byte
}

func (l *lowerer) text(n *sitter.Node) string {
	return string(l.src[n.StartByte():n.EndByte()])
}

// builder appends drafts in source order, filling gaps with whitespace.
type builder struct {
	src []byte
	pos uint32
	out []*draft
}

func (b *builder) gapTo(at uint32) {
	if at <= b.pos {
		return
	}
	gap := string(b.src[b.pos:at])
	if strings.TrimSpace(gap) == "" {
		b.out = append(b.out, leaf(syntax.Whitespace, gap))
	} else {
		b.out = append(b.out, leaf(syntax.Punct, gap))
	}
	b.pos = at
}

func (b *builder) add(n *sitter.Node, d *draft) {
	if d == nil {
		return
	}
	b.gapTo(n.StartByte())
	b.out = append(b.out, d)
	if n.EndByte() > b.pos {
		b.pos = n.EndByte()
	}
}

func (b *builder) finish(end uint32) []*draft {
	b.gapTo(end)
	return b.out
}

func (l *lowerer) file(root *sitter.Node) []*draft {
	b := &builder{src: l.src}
	for i := 0; i < int(root.ChildCount()); i++ {
		c := root.Child(i)
		b.add(c, l.lower(c, root.FieldNameForChild(i)))
	}
	return foldAttributes(b.finish(uint32(len(l.src))))
}

func (l *lowerer) lower(n *sitter.Node, field string) *draft {
	if n.IsMissing() || (n.StartByte() == n.EndByte() && n.ChildCount() == 0) {
		return nil
	}
	if !n.IsNamed() {
		return l.token(n)
	}
	switch typ := n.Type(); typ {
	case "line_comment":
		return leaf(syntax.LineComment, l.text(n))
	case "block_comment":
		return leaf(syntax.BlockComment, l.text(n))
	case "string_literal", "raw_string_literal", "char_literal":
		return node(syntax.LitExpr, leaf(syntax.StringLiteral, l.text(n)))
	case "integer_literal", "float_literal":
		return node(syntax.LitExpr, leaf(syntax.NumberLiteral, l.text(n)))
	case "boolean_literal":
		return node(syntax.LitExpr, leaf(syntax.Keyword, l.text(n)))
	case "identifier", "type_identifier", "primitive_type", "metavariable":
		id := leaf(syntax.Identifier, l.text(n))
		if field == "name" {
			return id
		}
		return node(syntax.Path, id)
	case "field_identifier", "shorthand_field_identifier", "label":
		return leaf(syntax.Identifier, l.text(n))
	case "scoped_identifier", "scoped_type_identifier":
		return l.path(n)
	case "self", "super", "crate", "mutable_specifier":
		return leaf(syntax.Keyword, l.text(n))
	case "attribute":
		return l.metaItem(n)
	case "mod_item":
		if n.ChildByFieldName("body") != nil {
			return l.composite(syntax.ModItem, n)
		}
		return l.composite(syntax.ModDeclItem, n)
	case "impl_item":
		return l.composite(syntax.ImplItem, n)
	case "macro_invocation":
		return l.macroCall(n)
	case "token_tree":
		return l.tokenTree(n)
	default:
		if k, ok := composites[typ]; ok {
			return l.composite(k, n)
		}
		if n.ChildCount() == 0 {
			return leaf(syntax.Punct, l.text(n))
		}
		return l.composite(syntax.Other, n)
	}
}

func (l *lowerer) token(n *sitter.Node) *draft {
	text := l.text(n)
	if k, ok := tokens[text]; ok {
		return leaf(k, text)
	}
	if isWord(strings.TrimSuffix(text, "!")) {
		return leaf(syntax.Keyword, text)
	}
	return leaf(syntax.Punct, text)
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '_' {
			return false
		}
	}
	return true
}

func (l *lowerer) composite(k syntax.Kind, n *sitter.Node) *draft {
	b := &builder{src: l.src, pos: n.StartByte()}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		field := n.FieldNameForChild(i)
		d := l.lower(c, field)
		switch {
		case d == nil:
			continue
		case k == syntax.ImplItem && field == "trait":
			d = node(syntax.TraitRef, d)
		case k == syntax.UseItem && field == "argument":
			d = node(syntax.UseSpeck, d)
		case k == syntax.ModItem && d.kind == syntax.Members:
			// A module body's items and inner attributes belong to the
			// module itself.
			b.gapTo(c.StartByte())
			b.out = append(b.out, d.children...)
			b.pos = c.EndByte()
			continue
		}
		b.add(c, d)
	}
	return node(k, foldAttributes(b.finish(n.EndByte()))...)
}

// path lowers `a::b::c` into nested Path nodes.
func (l *lowerer) path(n *sitter.Node) *draft {
	b := &builder{src: l.src, pos: n.StartByte()}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		var d *draft
		switch {
		case !c.IsNamed():
			d = l.token(c)
		case c.Type() == "scoped_identifier" || c.Type() == "scoped_type_identifier":
			d = l.path(c)
		case n.FieldNameForChild(i) == "path":
			d = node(syntax.Path, leaf(syntax.Identifier, l.text(c)))
		default:
			d = leaf(syntax.Identifier, l.text(c))
		}
		b.add(c, d)
	}
	return node(syntax.Path, b.finish(n.EndByte())...)
}

// metaItem lowers an attribute body: a path, then `= value` or arguments.
func (l *lowerer) metaItem(n *sitter.Node) *draft {
	b := &builder{src: l.src, pos: n.StartByte()}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		var d *draft
		switch {
		case c.Type() == "token_tree":
			d = l.metaArgs(c)
		case i == 0 && c.IsNamed() && c.Type() != "scoped_identifier":
			d = node(syntax.Path, leaf(syntax.Identifier, l.text(c)))
		default:
			d = l.lower(c, n.FieldNameForChild(i))
		}
		b.add(c, d)
	}
	return node(syntax.MetaItem, b.finish(n.EndByte())...)
}

// metaArgs splits a parenthesized token tree at top-level commas and lowers
// every well formed segment into a meta item.
func (l *lowerer) metaArgs(tt *sitter.Node) *draft {
	b := &builder{src: l.src, pos: tt.StartByte()}
	var segment []*sitter.Node
	flush := func() {
		if len(segment) == 0 {
			return
		}
		if meta := l.metaSegment(segment); meta != nil {
			b.gapTo(segment[0].StartByte())
			b.out = append(b.out, meta)
			b.pos = segment[len(segment)-1].EndByte()
		} else {
			for _, t := range segment {
				b.add(t, l.treeToken(t))
			}
		}
		segment = nil
	}

	count := int(tt.ChildCount())
	for i := 0; i < count; i++ {
		c := tt.Child(i)
		if c.IsMissing() {
			continue
		}
		text := l.text(c)
		if !c.IsNamed() && (i == 0 || i == count-1) && isDelimiter(text) {
			flush()
			b.add(c, l.token(c))
			continue
		}
		if !c.IsNamed() && text == "," {
			flush()
			b.add(c, l.token(c))
			continue
		}
		segment = append(segment, c)
	}
	flush()
	return node(syntax.MetaItemArgs, b.finish(tt.EndByte())...)
}

func isDelimiter(s string) bool {
	switch s {
	case "(", ")", "[", "]", "{", "}":
		return true
	}
	return false
}

// metaSegment parses `path`, `path = literal` or `path(args)` from token
// tree tokens, returning nil when the tokens have another shape.
func (l *lowerer) metaSegment(ts []*sitter.Node) *draft {
	i := 0
	if !isPathSegment(ts[0].Type()) {
		return nil
	}
	path := node(syntax.Path, leaf(syntax.Identifier, l.text(ts[0])))
	pathEnd := ts[0].EndByte()
	i++
	for i+1 < len(ts) && l.text(ts[i]) == "::" && isPathSegment(ts[i+1].Type()) {
		pb := &builder{src: l.src, pos: ts[0].StartByte()}
		pb.out = []*draft{path}
		pb.pos = pathEnd
		pb.add(ts[i], leaf(syntax.ColonColon, "::"))
		pb.add(ts[i+1], leaf(syntax.Identifier, l.text(ts[i+1])))
		path = node(syntax.Path, pb.out...)
		pathEnd = ts[i+1].EndByte()
		i += 2
	}

	b := &builder{src: l.src, pos: ts[0].StartByte()}
	b.out = []*draft{path}
	b.pos = pathEnd
	switch rest := ts[i:]; {
	case len(rest) == 0:
	case len(rest) == 2 && l.text(rest[0]) == "=" && isLiteral(rest[1].Type()):
		b.add(rest[0], leaf(syntax.Eq, "="))
		b.add(rest[1], l.lower(rest[1], "value"))
	case len(rest) == 1 && rest[0].Type() == "token_tree" && strings.HasPrefix(l.text(rest[0]), "("):
		b.add(rest[0], l.metaArgs(rest[0]))
	default:
		return nil
	}
	return node(syntax.MetaItem, b.out...)
}

// isPathSegment reports whether a token tree node can name a path segment.
// Token trees keep primitive types and path keywords as their own node types.
func isPathSegment(typ string) bool {
	switch typ {
	case "identifier", "primitive_type", "self", "crate", "super":
		return true
	}
	return false
}

func isLiteral(typ string) bool {
	switch typ {
	case "string_literal", "raw_string_literal", "char_literal", "integer_literal", "float_literal", "boolean_literal":
		return true
	}
	return false
}

// treeToken lowers a token inside a token tree that did not form a meta
// item.
func (l *lowerer) treeToken(n *sitter.Node) *draft {
	switch {
	case n.Type() == "token_tree":
		return l.tokenTree(n)
	case !n.IsNamed():
		return l.token(n)
	case isLiteral(n.Type()):
		return l.lower(n, "")
	case isPathSegment(n.Type()):
		return leaf(syntax.Identifier, l.text(n))
	default:
		return l.lower(n, "")
	}
}

func (l *lowerer) tokenTree(n *sitter.Node) *draft {
	b := &builder{src: l.src, pos: n.StartByte()}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.IsMissing() {
			continue
		}
		b.add(c, l.treeToken(c))
	}
	return node(syntax.TokenTree, b.finish(n.EndByte())...)
}

// macroCall lowers a macro invocation; the argument of `include!("...")`
// is kept as an expression.
func (l *lowerer) macroCall(n *sitter.Node) *draft {
	b := &builder{src: l.src, pos: n.StartByte()}
	name := ""
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		field := n.FieldNameForChild(i)
		if field == "macro" {
			name = l.text(c)
		}
		if c.Type() == "token_tree" && name == "include" {
			if arg := l.includeArgument(c); arg != nil {
				b.gapTo(c.StartByte())
				b.out = append(b.out, arg...)
				b.pos = c.EndByte()
				continue
			}
		}
		b.add(c, l.lower(c, field))
	}
	return node(syntax.MacroCall, b.finish(n.EndByte())...)
}

func (l *lowerer) includeArgument(tt *sitter.Node) []*draft {
	if tt.ChildCount() != 3 {
		return nil
	}
	open, lit, closing := tt.Child(0), tt.Child(1), tt.Child(2)
	if l.text(open) != "(" || !isLiteral(lit.Type()) {
		return nil
	}
	b := &builder{src: l.src, pos: tt.StartByte()}
	b.add(open, l.token(open))
	b.add(lit, node(syntax.IncludeMacroArgument, l.lower(lit, "")))
	b.add(closing, l.token(closing))
	return b.finish(tt.EndByte())
}

// foldAttributes moves each run of outer attributes, with the trivia
// between them, into the composite node that follows the run.
func foldAttributes(ds []*draft) []*draft {
	out := make([]*draft, 0, len(ds))
	var pending []*draft
	for _, d := range ds {
		switch {
		case d.kind == syntax.OuterAttr:
			pending = append(pending, d)
		case len(pending) > 0 && (d.kind == syntax.Whitespace || d.kind.IsComment()):
			pending = append(pending, d)
		case len(pending) > 0 && !d.kind.IsLeaf():
			d.children = append(pending, d.children...)
			pending = nil
			out = append(out, d)
		default:
			out = append(out, pending...)
			pending = nil
			out = append(out, d)
		}
	}
	return append(out, pending...)
}
