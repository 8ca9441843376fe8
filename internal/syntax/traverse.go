package syntax

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// ErrNoLeaf is returned by LeafAt when the offset lies outside the tree.
var ErrNoLeaf = errors.New("no leaf at offset")

// SuperParent walks exactly n parent links. It returns nil when the tree is
// shallower than n; n == 0 returns node itself.
func SuperParent(node Node, n int) Node {
	for ; n > 0 && node != nil; n-- {
		node = node.Parent()
	}
	return node
}

// Ancestors yields the parent chain of node, nearest first, excluding node.
func Ancestors(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for p := node.Parent(); p != nil; p = p.Parent() {
			if !yield(p) {
				return
			}
		}
	}
}

// AncestorOfKind returns the nearest strict ancestor of kind k, or nil.
func AncestorOfKind(node Node, k Kind) Node {
	for p := range Ancestors(node) {
		if p.Kind() == k {
			return p
		}
	}
	return nil
}

// LeftSiblings yields the previous siblings of node, nearest first.
func LeftSiblings(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for s := node.PrevSibling(); s != nil; s = s.PrevSibling() {
			if !yield(s) {
				return
			}
		}
	}
}

// FirstLeaf descends through first children. A composite without children
// is its own first leaf.
func FirstLeaf(node Node) Node {
	for {
		cs := node.Children()
		if len(cs) == 0 {
			return node
		}
		node = cs[0]
	}
}

// LastLeaf descends through last children.
func LastLeaf(node Node) Node {
	for {
		cs := node.Children()
		if len(cs) == 0 {
			return node
		}
		node = cs[len(cs)-1]
	}
}

// PrevLeaf returns the leaf immediately preceding node in document order,
// or nil at the start of the tree.
func PrevLeaf(node Node) Node {
	for n := node; n != nil; n = n.Parent() {
		if s := n.PrevSibling(); s != nil {
			return LastLeaf(s)
		}
	}
	return nil
}

// LeftLeaves lazily yields the leaves before node, nearest first. Each range
// restarts from node, so the sequence can be consumed more than once.
func LeftLeaves(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for l := PrevLeaf(node); l != nil; l = PrevLeaf(l) {
			if !yield(l) {
				return
			}
		}
	}
}

// Leaves yields every leaf under root in document order.
func Leaves(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for l := FirstLeaf(root); l != nil; {
			if !yield(l) {
				return
			}
			l = nextLeafWithin(l, root)
		}
	}
}

func nextLeafWithin(leaf, root Node) Node {
	for n := leaf; n != nil && n != root; n = n.Parent() {
		if s := n.NextSibling(); s != nil {
			return FirstLeaf(s)
		}
	}
	return nil
}

// Descendants yields node and everything below it in pre-order.
func Descendants(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(node, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children() {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// Depth is the number of parent links between node and the root.
func Depth(node Node) int {
	d := 0
	for range Ancestors(node) {
		d++
	}
	return d
}

// Offset is the byte offset of node's first character from the root.
func Offset(node Node) int {
	off := 0
	for l := range LeftLeaves(node) {
		off += len(l.Text())
	}
	return off
}

// LeafAt returns the leaf covering offset. An offset that falls exactly on a
// boundary resolves to the leaf starting there, except at the very end of
// the text where the last leaf is returned.
func LeafAt(root Node, offset int) (Node, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w %d", ErrNoLeaf, offset)
	}
	pos := 0
	var last Node
	for l := range Leaves(root) {
		n := len(l.Text())
		if offset < pos+n {
			return l, nil
		}
		pos += n
		last = l
	}
	if offset == pos && last != nil {
		return last, nil
	}
	return nil, fmt.Errorf("%w %d", ErrNoLeaf, offset)
}

// Dump renders the subtree as an indented kind listing, leaves with text.
func Dump(node Node) string {
	var sb strings.Builder
	dump(&sb, node, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind().String())
	if len(n.Children()) == 0 {
		fmt.Fprintf(sb, " %q", n.Text())
	}
	sb.WriteByte('\n')
	for _, c := range n.Children() {
		dump(sb, c, depth+1)
	}
}
