package tracestore

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/registry"
	"github.com/oxhq/rsmatch/internal/syntax"
	st "github.com/oxhq/rsmatch/internal/syntax/syntaxtest"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(filepath.Join(t.TempDir(), "nested", "faults.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"libsql://db.turso.io", true},
		{"https://db.example.com", true},
		{"http://localhost:8080", true},
		{"faults.db", false},
		{"/var/lib/rsmatch/faults.db", false},
		{"libsql", false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, isURL(tt.dsn))
		})
	}
}

func TestRecorder_ConditionFaults(t *testing.T) {
	tree := st.File(st.Fn("f", st.Block(st.Ident("x"))))
	leaf := st.Leaf(t, tree, "x")

	rec := NewRecorder(WithSession("session-1"))
	m := pattern.NewMatcher(pattern.WithTracer(rec))

	assert.False(t, m.Match(pattern.With("never", func(syntax.Node) bool { return false }), leaf))
	assert.Empty(t, rec.Pending(), "rejections are off by default")

	assert.False(t, m.Match(pattern.With("boom", func(syntax.Node) bool { panic("bad state") }), leaf))
	faults := rec.Pending()
	require.Len(t, faults, 1)
	assert.Equal(t, SourceCondition, faults[0].Source)
	assert.Equal(t, "boom", faults[0].Name)
	assert.Equal(t, "session-1", faults[0].SessionID)
	assert.Equal(t, syntax.Identifier.String(), faults[0].NodeKind)
	assert.Equal(t, "x", faults[0].NodeText)
	assert.Contains(t, faults[0].Message, "bad state")
	assert.JSONEq(t,
		`{"offset":`+itoa(syntax.Offset(leaf))+`,"ancestors":["BLOCK","FUNCTION","FILE"]}`,
		string(faults[0].Detail))
}

func TestRecorder_Rejections(t *testing.T) {
	tree := st.File(st.Fn("f"))
	rec := NewRecorder(WithRejections())
	m := pattern.NewMatcher(pattern.WithTracer(rec))

	m.Match(pattern.With("never", func(syntax.Node) bool { return false }), tree)

	faults := rec.Pending()
	require.Len(t, faults, 1)
	assert.Equal(t, "never", faults[0].Name)
	assert.Equal(t, "rejected", faults[0].Message)
}

func TestRecorder_HandlerFaultsThroughRegistry(t *testing.T) {
	tree := st.File(st.Fn("f", st.Block(st.Ident("x"))))
	leaf := st.Leaf(t, tree, "x")

	rec := NewRecorder()
	reg := registry.New[string](registry.WithFailureSink(rec))
	reg.MustRegister("broken", pattern.Kind(syntax.Identifier), func(registry.Request) (string, error) {
		return "", errors.New("no items")
	})
	reg.MustRegister("ok", pattern.Kind(syntax.Identifier), func(registry.Request) (string, error) {
		return "fine", nil
	})

	out := reg.Dispatch(leaf, 0)
	require.Len(t, out, 1)

	faults := rec.Pending()
	require.Len(t, faults, 1)
	assert.Equal(t, SourceHandler, faults[0].Source)
	assert.Equal(t, "broken", faults[0].Name)
	assert.Equal(t, "no items", faults[0].Message)
}

func TestRecorder_FlushAndRecent(t *testing.T) {
	db := openTestDB(t)
	tree := st.File(st.Fn("f", st.Block(st.Ident("x"))))
	leaf := st.Leaf(t, tree, "x")

	rec := NewRecorder()
	n, err := rec.Flush(db)
	require.NoError(t, err)
	assert.Zero(t, n)

	rec.HandlerFailed("derive", leaf, errors.New("first"))
	rec.HandlerFailed("derive", leaf, errors.New("second"))
	rec.ConditionPanicked("deriveCondition", leaf, errors.New("third"))

	n, err = rec.Flush(db)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, rec.Pending())

	faults, err := Recent(db, 2)
	require.NoError(t, err)
	assert.Len(t, faults, 2)

	faults, err = Recent(db, 0)
	require.NoError(t, err)
	require.Len(t, faults, 3)
	for _, f := range faults {
		assert.Equal(t, rec.Session(), f.SessionID)
		assert.NotEmpty(t, f.ID)
		assert.False(t, f.CreatedAt.IsZero())
	}

	summary, err := Summarize(db)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, Summary{Source: SourceHandler, Name: "derive", Count: 2}, summary[0])
	assert.Equal(t, Summary{Source: SourceCondition, Name: "deriveCondition", Count: 1}, summary[1])
}

func TestRecorder_FlushFailureKeepsBuffer(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&Fault{}))

	rec := NewRecorder()
	rec.HandlerFailed("keywords", nil, errors.New("failed"))

	_, err := rec.Flush(db)
	require.Error(t, err)
	assert.Len(t, rec.Pending(), 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "h...", truncate("héllo", 2))
	assert.Equal(t, "hé...", truncate("héllo", 3))
	assert.Equal(t, "...", truncate("ééé", 1))
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
