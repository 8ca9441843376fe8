package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRustcTable(t *testing.T) {
	require.Len(t, Rustc, 122)

	groups := 0
	for i, l := range Rustc {
		assert.NotEmpty(t, l.Name)
		if l.IsGroup {
			groups++
			assert.Less(t, i, 7, "groups are listed first")
		}
	}
	assert.Equal(t, 7, groups)
}

func TestFind(t *testing.T) {
	l, ok := Find("dead_code")
	require.True(t, ok)
	assert.False(t, l.IsGroup)

	l, ok = Find("warnings")
	require.True(t, ok)
	assert.True(t, l.IsGroup)

	_, ok = Find("clippy::all")
	assert.False(t, ok)
}

func TestWithPrefix(t *testing.T) {
	got := WithPrefix("unused_")
	require.NotEmpty(t, got)
	for _, l := range got {
		assert.Contains(t, l.Name, "unused_")
	}
	assert.Equal(t, "unused_allocation", got[0].Name)
	assert.Empty(t, WithPrefix("zzz"))
}
