// Package syntaxtest builds small Rust-shaped syntax trees for tests.
package syntaxtest

import (
	"strings"
	"testing"

	"github.com/oxhq/rsmatch/internal/syntax"
)

func Ident(name string) *syntax.Element { return syntax.NewLeaf(syntax.Identifier, name) }

func Kw(word string) *syntax.Element { return syntax.NewLeaf(syntax.Keyword, word) }

func WS(text string) *syntax.Element { return syntax.NewLeaf(syntax.Whitespace, text) }

func Tok(kind syntax.Kind, text string) *syntax.Element { return syntax.NewLeaf(kind, text) }

func Semi() *syntax.Element { return syntax.NewLeaf(syntax.Semicolon, ";") }

func Comment(text string) *syntax.Element {
	if strings.HasPrefix(text, "/*") {
		return syntax.NewLeaf(syntax.BlockComment, text)
	}
	return syntax.NewLeaf(syntax.LineComment, text)
}

// Path builds a possibly qualified path; "a::b" nests as Path[Path[a] :: b].
func Path(text string) *syntax.Element {
	segs := strings.Split(text, "::")
	p := syntax.NewNode(syntax.Path, Ident(segs[0]))
	for _, s := range segs[1:] {
		p = syntax.NewNode(syntax.Path, p, syntax.NewLeaf(syntax.ColonColon, "::"), Ident(s))
	}
	return p
}

// Lit wraps a quoted string literal in a LitExpr.
func Lit(value string) *syntax.Element {
	return syntax.NewNode(syntax.LitExpr, syntax.NewLeaf(syntax.StringLiteral, `"`+value+`"`))
}

// Meta builds `name` when no args are given, otherwise `name(a, b)`.
func Meta(name string, args ...*syntax.Element) *syntax.Element {
	if len(args) == 0 {
		return syntax.NewNode(syntax.MetaItem, Path(name))
	}
	return syntax.NewNode(syntax.MetaItem, Path(name), Args(args...))
}

// Args builds a parenthesized, comma separated MetaItemArgs.
func Args(items ...*syntax.Element) *syntax.Element {
	parts := []*syntax.Element{syntax.NewLeaf(syntax.LParen, "(")}
	for i, it := range items {
		if i > 0 {
			parts = append(parts, syntax.NewLeaf(syntax.Comma, ","), WS(" "))
		}
		parts = append(parts, it)
	}
	parts = append(parts, syntax.NewLeaf(syntax.RParen, ")"))
	return syntax.NewNode(syntax.MetaItemArgs, parts...)
}

// MetaEq builds `name = "value"`.
func MetaEq(name, value string) *syntax.Element {
	return syntax.NewNode(syntax.MetaItem,
		Path(name), WS(" "), syntax.NewLeaf(syntax.Eq, "="), WS(" "), Lit(value))
}

// Attr builds `#[meta]`.
func Attr(meta *syntax.Element) *syntax.Element {
	return syntax.NewNode(syntax.OuterAttr,
		syntax.NewLeaf(syntax.Pound, "#"), syntax.NewLeaf(syntax.LBrack, "["),
		meta, syntax.NewLeaf(syntax.RBrack, "]"))
}

// InnerAttr builds `#![meta]`.
func InnerAttr(meta *syntax.Element) *syntax.Element {
	return syntax.NewNode(syntax.InnerAttr,
		syntax.NewLeaf(syntax.Pound, "#"), syntax.NewLeaf(syntax.Excl, "!"),
		syntax.NewLeaf(syntax.LBrack, "["), meta, syntax.NewLeaf(syntax.RBrack, "]"))
}

// Item builds `attrs keyword name rest...` of the given kind. Outer
// attributes among parts are placed first, each followed by a newline.
func Item(kind syntax.Kind, keyword, name string, parts ...*syntax.Element) *syntax.Element {
	var attrs, rest []*syntax.Element
	for _, p := range parts {
		if p.Kind() == syntax.OuterAttr {
			attrs = append(attrs, p, WS("\n"))
		} else {
			rest = append(rest, p)
		}
	}
	children := append(attrs, Kw(keyword))
	if name != "" {
		children = append(children, WS(" "), Ident(name))
	}
	children = append(children, rest...)
	return syntax.NewNode(kind, children...)
}

func Struct(name string, parts ...*syntax.Element) *syntax.Element {
	return Item(syntax.StructItem, "struct", name, parts...)
}

func Enum(name string, parts ...*syntax.Element) *syntax.Element {
	return Item(syntax.EnumItem, "enum", name, parts...)
}

func Fn(name string, parts ...*syntax.Element) *syntax.Element {
	return Item(syntax.Function, "fn", name, parts...)
}

func Mod(name string, parts ...*syntax.Element) *syntax.Element {
	return Item(syntax.ModItem, "mod", name, parts...)
}

// TupleFields builds `(T)`.
func TupleFields(types ...string) *syntax.Element {
	parts := []*syntax.Element{syntax.NewLeaf(syntax.LParen, "(")}
	for i, t := range types {
		if i > 0 {
			parts = append(parts, syntax.NewLeaf(syntax.Comma, ","), WS(" "))
		}
		parts = append(parts, Path(t))
	}
	parts = append(parts, syntax.NewLeaf(syntax.RParen, ")"))
	return syntax.NewNode(syntax.TupleFields, parts...)
}

// Block builds `{ stmts }` without adding whitespace.
func Block(stmts ...*syntax.Element) *syntax.Element {
	parts := append([]*syntax.Element{syntax.NewLeaf(syntax.LBrace, "{")}, stmts...)
	parts = append(parts, syntax.NewLeaf(syntax.RBrace, "}"))
	return syntax.NewNode(syntax.Block, parts...)
}

// Members builds the `{ ... }` body of an impl or trait.
func Members(items ...*syntax.Element) *syntax.Element {
	parts := append([]*syntax.Element{syntax.NewLeaf(syntax.LBrace, "{")}, items...)
	parts = append(parts, syntax.NewLeaf(syntax.RBrace, "}"))
	return syntax.NewNode(syntax.Members, parts...)
}

// Impl builds `impl Trait for Type { members }`.
func Impl(trait, typ string, members ...*syntax.Element) *syntax.Element {
	return syntax.NewNode(syntax.ImplItem,
		Kw("impl"), WS(" "),
		syntax.NewNode(syntax.TraitRef, Path(trait)), WS(" "),
		Kw("for"), WS(" "), Path(typ), WS(" "),
		Members(members...))
}

// File builds a non-crate-root file.
func File(children ...*syntax.Element) *syntax.Element {
	return syntax.NewFile(false, children...)
}

// CrateFile builds a crate root file.
func CrateFile(children ...*syntax.Element) *syntax.Element {
	return syntax.NewFile(true, children...)
}

// Leaf returns the first leaf under root whose text equals text.
func Leaf(t testing.TB, root syntax.Node, text string) syntax.Node {
	t.Helper()
	for l := range syntax.Leaves(root) {
		if l.Text() == text {
			return l
		}
	}
	t.Fatalf("no leaf %q in tree:\n%s", text, syntax.Dump(root))
	return nil
}

// First returns the first node of kind k under root in pre-order.
func First(t testing.TB, root syntax.Node, k syntax.Kind) syntax.Node {
	t.Helper()
	for n := range syntax.Descendants(root) {
		if n.Kind() == k {
			return n
		}
	}
	t.Fatalf("no %s in tree:\n%s", k, syntax.Dump(root))
	return nil
}
