package syntax_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/rsmatch/internal/syntax"
	st "github.com/oxhq/rsmatch/internal/syntax/syntaxtest"
)

func sampleTree() *syntax.Element {
	// #[derive(Debug)]
	// struct S;
	return st.File(
		st.Struct("S", st.Attr(st.Meta("derive", st.Meta("Debug"))), st.Semi()),
		st.WS("\n"),
	)
}

func texts(seq func(func(syntax.Node) bool)) []string {
	var out []string
	for n := range seq {
		out = append(out, n.Text())
	}
	return out
}

func TestElement_TextConcatenatesLeaves(t *testing.T) {
	root := sampleTree()
	assert.Equal(t, "#[derive(Debug)]\nstruct S;\n", root.Text())
}

func TestElement_ParentAndSiblings(t *testing.T) {
	root := sampleTree()
	debug := st.Leaf(t, root, "Debug")

	require.NotNil(t, debug.Parent())
	assert.Equal(t, syntax.Path, debug.Parent().Kind())
	assert.Nil(t, debug.PrevSibling())
	assert.Nil(t, debug.NextSibling())
	assert.Nil(t, root.Parent())

	s := st.Leaf(t, root, "S")
	assert.Equal(t, " ", s.PrevSibling().Text())
	assert.Equal(t, ";", s.NextSibling().Text())
}

func TestNewNode_PanicsOnReparent(t *testing.T) {
	leaf := st.Ident("x")
	syntax.NewNode(syntax.Path, leaf)
	assert.Panics(t, func() { syntax.NewNode(syntax.Path, leaf) })
}

func TestSuperParent(t *testing.T) {
	root := sampleTree()
	debug := st.Leaf(t, root, "Debug")

	tests := []struct {
		n    int
		want syntax.Kind
	}{
		{0, syntax.Identifier},
		{1, syntax.Path},
		{2, syntax.MetaItem},
		{3, syntax.MetaItemArgs},
		{4, syntax.MetaItem},
		{5, syntax.OuterAttr},
		{6, syntax.StructItem},
		{7, syntax.File},
	}
	for _, tt := range tests {
		got := syntax.SuperParent(debug, tt.n)
		require.NotNil(t, got, "distance %d", tt.n)
		assert.Equal(t, tt.want, got.Kind(), "distance %d", tt.n)
	}
	assert.Nil(t, syntax.SuperParent(debug, 8))
	assert.Nil(t, syntax.SuperParent(debug, 100))
	assert.Equal(t, 7, syntax.Depth(debug))
}

func TestLeftLeaves_NearestFirstAndRestartable(t *testing.T) {
	root := sampleTree()
	s := st.Leaf(t, root, "S")

	want := []string{" ", "struct", "\n", "]", ")", "Debug", "(", "derive", "[", "#"}
	seq := syntax.LeftLeaves(s)
	assert.Equal(t, want, texts(seq))
	assert.Equal(t, want, texts(seq), "sequence must restart")
}

func TestLeftLeaves_StopsEarly(t *testing.T) {
	root := sampleTree()
	var visited int
	for l := range syntax.LeftLeaves(st.Leaf(t, root, "S")) {
		visited++
		if l.Kind() == syntax.Keyword {
			break
		}
	}
	assert.Equal(t, 2, visited)
}

func TestLeftSiblings(t *testing.T) {
	root := sampleTree()
	s := st.Leaf(t, root, "S")
	assert.Equal(t, []string{" ", "struct", "\n", "#[derive(Debug)]"}, texts(syntax.LeftSiblings(s)))
}

func TestLeavesAndDescendants(t *testing.T) {
	root := sampleTree()
	var joined string
	for l := range syntax.Leaves(root) {
		joined += l.Text()
	}
	assert.Equal(t, root.Text(), joined)

	var kinds []syntax.Kind
	for n := range syntax.Descendants(root) {
		kinds = append(kinds, n.Kind())
	}
	assert.Equal(t, syntax.File, kinds[0])
	assert.True(t, slices.Contains(kinds, syntax.MetaItemArgs))
}

func TestLeafAt(t *testing.T) {
	root := sampleTree()

	l, err := syntax.LeafAt(root, 9)
	require.NoError(t, err)
	assert.Equal(t, "Debug", l.Text())
	assert.Equal(t, 9, syntax.Offset(l))

	l, err = syntax.LeafAt(root, len(root.Text()))
	require.NoError(t, err)
	assert.Equal(t, "\n", l.Text())

	_, err = syntax.LeafAt(root, len(root.Text())+1)
	assert.ErrorIs(t, err, syntax.ErrNoLeaf)
	_, err = syntax.LeafAt(root, -1)
	assert.ErrorIs(t, err, syntax.ErrNoLeaf)
}

func TestAncestorOfKind(t *testing.T) {
	root := sampleTree()
	debug := st.Leaf(t, root, "Debug")
	assert.Equal(t, syntax.OuterAttr, syntax.AncestorOfKind(debug, syntax.OuterAttr).Kind())
	assert.Nil(t, syntax.AncestorOfKind(debug, syntax.ImplItem))
}

func TestKindSet(t *testing.T) {
	s := syntax.NewKindSet(syntax.Semicolon, syntax.LBrace, syntax.RBrace)
	assert.True(t, s.Contains(syntax.LBrace))
	assert.False(t, s.Contains(syntax.Identifier))
	assert.Equal(t, "SEMICOLON", syntax.Semicolon.String())
	assert.True(t, syntax.Comma.IsLeaf())
	assert.False(t, syntax.File.IsLeaf())
	assert.True(t, syntax.File.IsAttributeOwner())
}

func TestCrateRoot(t *testing.T) {
	assert.True(t, st.CrateFile().IsCrateRoot())
	assert.False(t, st.File().IsCrateRoot())
	assert.False(t, st.Ident("x").IsCrateRoot())
}

func TestDump(t *testing.T) {
	out := syntax.Dump(st.Meta("cfg"))
	assert.Equal(t, "META_ITEM\n  PATH\n    IDENTIFIER \"cfg\"\n", out)
}
