// Package scanner finds the Rust source files below a set of targets.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultExtensions are the file extensions scanned when none are set.
var DefaultExtensions = []string{".rs"}

var skipDirs = []string{".git", "target", "vendor", "node_modules"}

// Scanner handles recursive directory traversal with filtering capabilities.
type Scanner struct {
	maxBytes       int64
	followSymlinks bool
	extensions     []string
	includeGlobs   []string
	excludeGlobs   []string
	noGitignore    bool
}

// Config holds scanner configuration options. Globs use doublestar syntax
// and are matched against slash separated paths relative to the target.
type Config struct {
	MaxBytes       int64
	FollowSymlinks bool
	Extensions     []string
	IncludeGlobs   []string
	ExcludeGlobs   []string
	NoGitignore    bool
}

// New creates a new scanner with the given configuration.
func New(cfg Config) *Scanner {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return &Scanner{
		maxBytes:       cfg.MaxBytes,
		followSymlinks: cfg.FollowSymlinks,
		extensions:     slices.Clone(exts),
		includeGlobs:   cfg.IncludeGlobs,
		excludeGlobs:   cfg.ExcludeGlobs,
		noGitignore:    cfg.NoGitignore,
	}
}

// ScanTargets processes a list of file and directory targets, returning
// the files to process in a stable order.
func (s *Scanner) ScanTargets(ctx context.Context, targets []string) ([]string, error) {
	if len(targets) == 0 {
		targets = []string{"."}
	}

	var allFiles []string
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := s.scanTarget(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("scanning target %s: %w", target, err)
		}
		allFiles = append(allFiles, files...)
	}

	slices.Sort(allFiles)
	return slices.Compact(allFiles), nil
}

func (s *Scanner) scanTarget(ctx context.Context, target string) ([]string, error) {
	info, err := os.Lstat(target)
	if err != nil {
		return nil, fmt.Errorf("accessing target %s: %w", target, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !s.followSymlinks {
			return nil, nil
		}
		resolved, err := filepath.EvalSymlinks(target)
		if err != nil {
			return nil, fmt.Errorf("resolving symlink %s: %w", target, err)
		}
		return s.scanTarget(ctx, resolved)
	}

	if info.Mode().IsRegular() {
		if s.shouldProcessFile(filepath.Base(target), info, nil) {
			return []string{target}, nil
		}
		return nil, nil
	}

	if info.IsDir() {
		return s.scanDirectory(ctx, target)
	}
	return nil, nil
}

func (s *Scanner) scanDirectory(ctx context.Context, dir string) ([]string, error) {
	var gitignore *ignore.GitIgnore
	if !s.noGitignore {
		gitignore = loadGitignore(dir)
	}

	var files []string
	err := fs.WalkDir(os.DirFS(dir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != "." && s.shouldSkipDirectory(path, gitignore) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("getting file info for %s: %w", path, err)
		}
		if s.shouldProcessFile(path, info, gitignore) {
			files = append(files, filepath.Join(dir, filepath.FromSlash(path)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", dir, err)
	}
	return files, nil
}

// loadGitignore compiles the .gitignore of dir, if any.
func loadGitignore(dir string) *ignore.GitIgnore {
	gitignore, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gitignore
}

// shouldProcessFile reports whether the file at rel, a slash separated
// path relative to the scanned directory, passes every filter.
func (s *Scanner) shouldProcessFile(rel string, info os.FileInfo, gitignore *ignore.GitIgnore) bool {
	if gitignore != nil && gitignore.MatchesPath(rel) {
		return false
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return false
	}
	if !slices.Contains(s.extensions, filepath.Ext(rel)) {
		return false
	}

	if len(s.includeGlobs) > 0 && !matchAny(s.includeGlobs, rel) {
		return false
	}
	return !matchAny(s.excludeGlobs, rel)
}

func matchAny(globs []string, rel string) bool {
	for _, glob := range globs {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
		// A glob without a separator also matches the base name.
		if !strings.Contains(glob, "/") {
			if ok, _ := doublestar.Match(glob, filepath.Base(rel)); ok {
				return true
			}
		}
	}
	return false
}

func (s *Scanner) shouldSkipDirectory(rel string, gitignore *ignore.GitIgnore) bool {
	if gitignore != nil && gitignore.MatchesPath(rel+"/") {
		return true
	}
	name := filepath.Base(rel)
	if slices.Contains(skipDirs, name) {
		return true
	}
	return strings.HasPrefix(name, ".")
}
