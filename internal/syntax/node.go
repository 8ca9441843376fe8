package syntax

import "strings"

// Node is one element of a parsed, immutable syntax tree. Implementations
// must return a nil interface (not a typed nil) for absent parents and
// siblings, and must not change while a match is in progress.
type Node interface {
	Kind() Kind
	// Text is the source text covered by the node.
	Text() string
	Parent() Node
	Children() []Node
	PrevSibling() Node
	NextSibling() Node
}

// CrateRoot is implemented by file nodes that know whether they are the
// root module of a crate (main.rs, lib.rs or an explicit target root).
type CrateRoot interface {
	IsCrateRoot() bool
}

// Element is the in-memory Node implementation. Elements are linked
// bottom-up by NewNode and are never mutated afterwards.
type Element struct {
	kind     Kind
	text     string
	parent   *Element
	index    int
	children []Node
	crate    bool
}

var _ Node = (*Element)(nil)

// NewLeaf creates a token.
func NewLeaf(kind Kind, text string) *Element {
	return &Element{kind: kind, text: text}
}

// NewNode creates a composite and adopts children. It panics if a child
// already has a parent, since a node can only appear once in a tree.
func NewNode(kind Kind, children ...*Element) *Element {
	e := &Element{kind: kind, children: make([]Node, 0, len(children))}
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			panic("syntax: element " + c.kind.String() + " already has a parent")
		}
		c.parent = e
		c.index = len(e.children)
		e.children = append(e.children, c)
	}
	return e
}

// NewFile creates a File root. crateRoot marks main.rs/lib.rs style files.
func NewFile(crateRoot bool, children ...*Element) *Element {
	e := NewNode(File, children...)
	e.crate = crateRoot
	return e
}

func (e *Element) Kind() Kind { return e.kind }

func (e *Element) Text() string {
	if len(e.children) == 0 {
		return e.text
	}
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	if len(e.children) == 0 {
		sb.WriteString(e.text)
		return
	}
	for _, c := range e.children {
		c.(*Element).writeText(sb)
	}
}

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Children() []Node { return e.children }

func (e *Element) PrevSibling() Node {
	if e.parent == nil || e.index == 0 {
		return nil
	}
	return e.parent.children[e.index-1]
}

func (e *Element) NextSibling() Node {
	if e.parent == nil || e.index+1 >= len(e.parent.children) {
		return nil
	}
	return e.parent.children[e.index+1]
}

// IsCrateRoot implements CrateRoot for File elements.
func (e *Element) IsCrateRoot() bool { return e.kind == File && e.crate }

func (e *Element) String() string {
	if len(e.children) == 0 {
		return e.kind.String() + "(" + e.text + ")"
	}
	return e.kind.String()
}
