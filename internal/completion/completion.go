// Package completion offers context-sensitive completion items for a caret
// position in a Rust syntax tree. Each source of items is a provider in an
// ordered registry; every provider whose pattern matches contributes.
package completion

import (
	"bytes"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/registry"
	"github.com/oxhq/rsmatch/internal/syntax"
)

// DummyIdentifier is inserted at the caret before parsing so that the
// position is always an identifier or literal leaf.
const DummyIdentifier = "rsmatchDummy"

// CaretMarker marks the completion position in fixture sources.
const CaretMarker = "/*caret*/"

// Provider names in registration order.
const (
	ProviderKeywords   = "keywords"
	ProviderDerive     = "derive"
	ProviderAttributes = "attributes"
	ProviderCfgFeature = "cfg_feature"
	ProviderRustcLints = "rustc_lints"
	ProviderFilePath   = "file_path"
)

// Item is a single completion suggestion.
type Item struct {
	Label    string
	Detail   string
	Provider string
}

// Contributor dispatches caret positions to the completion providers.
type Contributor struct {
	reg      *registry.Registry[[]Item]
	matcher  *pattern.Matcher
	features []string
	files    fs.FS
}

type settings struct {
	log      *zap.Logger
	tracer   pattern.Tracer
	sink     registry.FailureSink
	disabled []string
	features []string
	files    fs.FS
}

// Option configures a Contributor.
type Option func(*settings)

func WithLogger(log *zap.Logger) Option {
	return func(s *settings) { s.log = log }
}

func WithTracer(t pattern.Tracer) Option {
	return func(s *settings) { s.tracer = t }
}

func WithFailureSink(sink registry.FailureSink) Option {
	return func(s *settings) { s.sink = sink }
}

// WithDisabled turns off the named providers.
func WithDisabled(names ...string) Option {
	return func(s *settings) { s.disabled = append(s.disabled, names...) }
}

// WithFeatures sets the crate features offered inside cfg conditions.
func WithFeatures(features ...string) Option {
	return func(s *settings) { s.features = append(s.features, features...) }
}

// WithFiles sets the file tree offered for `#[path]` and `include!`.
func WithFiles(fsys fs.FS) Option {
	return func(s *settings) { s.files = fsys }
}

// New builds a contributor with all providers registered.
func New(opts ...Option) *Contributor {
	s := settings{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	matcher := pattern.NewMatcher(pattern.WithLogger(s.log), pattern.WithTracer(s.tracer))
	c := &Contributor{
		matcher:  matcher,
		features: slices.Clone(s.features),
		files:    s.files,
	}
	regOpts := []registry.Option{
		registry.WithLogger(s.log),
		registry.WithMatcher(matcher),
		registry.WithDisabled(s.disabled...),
	}
	if s.sink != nil {
		regOpts = append(regOpts, registry.WithFailureSink(s.sink))
	}
	c.reg = registry.New[[]Item](regOpts...)

	c.reg.MustRegister(ProviderKeywords, keywordPosition, c.keywords)
	c.reg.MustRegister(ProviderDerive, derivePosition, c.derive)
	c.reg.MustRegister(ProviderAttributes, attributePosition, c.attributes)
	c.reg.MustRegister(ProviderCfgFeature, cfgFeaturePosition, c.cfgFeatures)
	c.reg.MustRegister(ProviderRustcLints, lintPosition, c.rustcLints)
	c.reg.MustRegister(ProviderFilePath, filePathPosition, c.filePaths)
	return c
}

// Providers lists provider names in dispatch order.
func (c *Contributor) Providers() []string { return c.reg.Providers() }

// Matching lists the providers whose pattern accepts pos.
func (c *Contributor) Matching(pos syntax.Node) []string { return c.reg.Matching(pos) }

// Complete collects the items of every matching provider, in provider
// order, keeping those that extend the text typed before the caret.
func (c *Contributor) Complete(pos syntax.Node, trigger rune) []Item {
	prefix := Prefix(pos)
	var items []Item
	for _, o := range c.reg.Dispatch(pos, trigger) {
		for _, it := range o.Value {
			if !strings.HasPrefix(it.Label, prefix) {
				continue
			}
			it.Provider = o.Provider
			items = append(items, it)
		}
	}
	return items
}

// Prefix returns the text typed before the caret: the part of pos before
// the dummy identifier, without a string literal's opening quote.
func Prefix(pos syntax.Node) string {
	if pos == nil {
		return ""
	}
	text := pos.Text()
	i := strings.Index(text, DummyIdentifier)
	if i < 0 {
		return ""
	}
	prefix := text[:i]
	if pos.Kind() == syntax.StringLiteral {
		prefix = strings.TrimPrefix(prefix, `"`)
	}
	return prefix
}

// ShouldAutoTrigger reports whether typing ch at pos opens completion
// without an explicit request.
func ShouldAutoTrigger(pos syntax.Node, ch rune) bool {
	return ch == ':' && pos != nil && pos.Kind() == syntax.Colon
}

func items(detail string, labels ...string) []Item {
	out := make([]Item, 0, len(labels))
	for _, l := range labels {
		out = append(out, Item{Label: l, Detail: detail})
	}
	return out
}

// Caret removes the first caret marker from src and returns the cleaned
// source with the marker's offset.
func Caret(src []byte) ([]byte, int, bool) {
	i := bytes.Index(src, []byte(CaretMarker))
	if i < 0 {
		return src, 0, false
	}
	clean := make([]byte, 0, len(src)-len(CaretMarker))
	clean = append(clean, src[:i]...)
	clean = append(clean, src[i+len(CaretMarker):]...)
	return clean, i, true
}

// WithDummy returns a copy of src with DummyIdentifier inserted at offset.
func WithDummy(src []byte, offset int) ([]byte, error) {
	if offset < 0 || offset > len(src) {
		return nil, fmt.Errorf("offset %d outside source of %d bytes", offset, len(src))
	}
	out := make([]byte, 0, len(src)+len(DummyIdentifier))
	out = append(out, src[:offset]...)
	out = append(out, DummyIdentifier...)
	out = append(out, src[offset:]...)
	return out, nil
}
