package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/rsmatch/internal/syntax"
	"github.com/oxhq/rsmatch/internal/tsrust"
)

// completeSource runs the full pipeline on a fixture with a caret marker.
func completeSource(t *testing.T, c *Contributor, fixture string, crateRoot bool) []Item {
	t.Helper()
	src, off, ok := Caret([]byte(fixture))
	require.True(t, ok)
	src, err := WithDummy(src, off)
	require.NoError(t, err)

	p := tsrust.NewParser(nil)
	defer p.Close()
	root, err := p.Parse(context.Background(), src, crateRoot)
	require.NoError(t, err)

	pos, err := syntax.LeafAt(root, off)
	require.NoError(t, err)
	return c.Complete(pos, 0)
}

func TestParsedSource_Derive(t *testing.T) {
	got := labels(completeSource(t, New(), "#[derive(Clone, C/*caret*/)]\nstruct S;\n", false))
	assert.Equal(t, []string{"Copy"}, got)
}

func TestParsedSource_Attribute(t *testing.T) {
	got := labels(completeSource(t, New(), "#![no_/*caret*/]\n", true))
	assert.Equal(t, []string{"no_builtins", "no_main", "no_start", "no_std", "no_mangle"}, got)
}

func TestParsedSource_Lint(t *testing.T) {
	got := labels(completeSource(t, New(), "#[allow(dead_c/*caret*/)]\nfn f() {}\n", false))
	assert.Equal(t, []string{"dead_code"}, got)
}
