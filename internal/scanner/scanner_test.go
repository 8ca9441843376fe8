package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relAll(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestScannerBasic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/main.rs":   "fn main() {}",
		"src/lib.rs":    "",
		"README.md":     "# readme",
		"build.rs":      "fn main() {}",
		"src/util/a.rs": "",
	})

	files, err := New(Config{}).ScanTargets(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"build.rs", "src/lib.rs", "src/main.rs", "src/util/a.rs"}, relAll(t, root, files))
}

func TestScannerWithGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":        "generated.rs\ngen/\n",
		"main.rs":           "",
		"generated.rs":      "",
		"gen/out.rs":        "",
		"target/debug/x.rs": "",
		".hidden/h.rs":      "",
	})

	files, err := New(Config{}).ScanTargets(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.rs"}, relAll(t, root, files))

	files, err = New(Config{NoGitignore: true}).ScanTargets(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"gen/out.rs", "generated.rs", "main.rs"}, relAll(t, root, files))
}

func TestScannerIncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.rs":         "",
		"src/a_test.rs":    "",
		"benches/bench.rs": "",
	})

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{"include dir", Config{IncludeGlobs: []string{"src/**"}}, []string{"src/a.rs", "src/a_test.rs"}},
		{"exclude base name", Config{ExcludeGlobs: []string{"*_test.rs"}}, []string{"benches/bench.rs", "src/a.rs"}},
		{"both", Config{IncludeGlobs: []string{"src/**"}, ExcludeGlobs: []string{"**/*_test.rs"}}, []string{"src/a.rs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := New(tt.cfg).ScanTargets(context.Background(), []string{root})
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, root, files))
		})
	}
}

func TestScannerMaxBytes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.rs": "fn a() {}",
		"large.rs": string(make([]byte, 2048)),
	})

	files, err := New(Config{MaxBytes: 1024}).ScanTargets(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.rs"}, relAll(t, root, files))
}

func TestScannerFileTargetsAndDuplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.rs": "", "b.txt": ""})
	a := filepath.Join(root, "a.rs")

	files, err := New(Config{}).ScanTargets(context.Background(), []string{a, root, filepath.Join(root, "b.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)

	_, err = New(Config{}).ScanTargets(context.Background(), []string{filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestScannerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{}).ScanTargets(ctx, []string{t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}
