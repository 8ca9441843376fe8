// Package tsrust parses Rust source with tree-sitter and lowers the result
// into a syntax tree.
package tsrust

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/oxhq/rsmatch/internal/syntax"
)

// Parser turns Rust source into syntax trees. It is safe for concurrent
// use; parses are serialized on the underlying tree-sitter parser.
type Parser struct {
	mu     sync.Mutex
	parser *sitter.Parser
	cache  *Cache
}

// NewParser creates a parser. A nil cache disables caching.
func NewParser(cache *Cache) *Parser {
	lang := rust.GetLanguage()
	if lang == nil {
		panic("failed to load rust language for tree-sitter")
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return &Parser{parser: parser, cache: cache}
}

// Parse lowers src into a File node. crateRoot marks the file as the root
// module of a crate.
func (p *Parser) Parse(ctx context.Context, src []byte, crateRoot bool) (*syntax.Element, error) {
	if p.cache != nil {
		if root, ok := p.cache.Get(src, crateRoot); ok {
			return root, nil
		}
	}

	p.mu.Lock()
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source: no tree")
	}
	defer tree.Close()

	l := &lowerer{src: src}
	children := l.file(tree.RootNode())
	elems := make([]*syntax.Element, len(children))
	for i, c := range children {
		elems[i] = c.element()
	}
	root := syntax.NewFile(crateRoot, elems...)

	if p.cache != nil {
		p.cache.Put(src, crateRoot, root)
	}
	return root, nil
}

// ParseFile reads and parses a file. main.rs and lib.rs are crate roots.
func (p *Parser) ParseFile(ctx context.Context, path string) (*syntax.Element, []byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	root, err := p.Parse(ctx, src, IsCrateRoot(path))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, src, nil
}

// IsCrateRoot reports whether path names a conventional crate root file.
func IsCrateRoot(path string) bool {
	switch filepath.Base(path) {
	case "main.rs", "lib.rs":
		return true
	}
	return false
}

// Close releases the tree-sitter parser.
func (p *Parser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parser.Close()
}
