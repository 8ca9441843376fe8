package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oxhq/rsmatch/internal/completion"
	"github.com/oxhq/rsmatch/internal/syntax"
	"github.com/oxhq/rsmatch/internal/tsrust"
)

var errNoPosition = errors.New("no position: pass --offset or put " + completion.CaretMarker + " in the file")

// position is a parsed file and the leaf at the requested offset.
type position struct {
	path   string
	src    []byte
	root   *syntax.Element
	leaf   syntax.Node
	offset int
}

// locate parses path and resolves offset, or the caret marker when offset
// is negative. withDummy inserts the completion identifier first.
func (a *app) locate(ctx context.Context, path string, offset int, withDummy bool) (*position, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if offset < 0 {
		var ok bool
		src, offset, ok = completion.Caret(src)
		if !ok {
			return nil, errNoPosition
		}
	}
	if withDummy {
		if src, err = completion.WithDummy(src, offset); err != nil {
			return nil, err
		}
	} else if offset > len(src) {
		return nil, fmt.Errorf("offset %d outside %s (%d bytes)", offset, path, len(src))
	}

	root, err := a.parser.Parse(ctx, src, tsrust.IsCrateRoot(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	leaf, err := syntax.LeafAt(root, offset)
	if err != nil {
		return nil, err
	}
	return &position{path: path, src: src, root: root, leaf: leaf, offset: offset}, nil
}

// lineCol converts a byte offset into 1-based line and column numbers.
func lineCol(src []byte, offset int) (int, int) {
	offset = min(offset, len(src))
	line := bytes.Count(src[:offset], []byte("\n")) + 1
	col := offset - bytes.LastIndexByte(src[:offset], '\n')
	return line, col
}
