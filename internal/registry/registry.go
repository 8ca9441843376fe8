// Package registry keeps an ordered list of (pattern, handler) providers and
// dispatches query positions to every provider whose pattern matches.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/syntax"
)

var (
	ErrNilPattern        = errors.New("pattern cannot be nil")
	ErrNilHandler        = errors.New("handler cannot be nil")
	ErrDuplicateProvider = errors.New("provider already registered")
)

// Request is what a handler sees for one matching position.
type Request struct {
	Position syntax.Node
	// Trigger is the typed character that caused the request, or 0 when the
	// request was invoked explicitly.
	Trigger rune
	// Captures holds the nodes captured by the provider's pattern. It is
	// owned by this request only.
	Captures *pattern.Context
}

// Handler produces a provider's contribution for a matched position.
type Handler[T any] func(req Request) (T, error)

// Outcome is the result of one invoked handler.
type Outcome[T any] struct {
	Provider string
	Value    T
}

// FailureSink receives handler failures in addition to the log.
type FailureSink interface {
	HandlerFailed(provider string, pos syntax.Node, err error)
}

type registration[T any] struct {
	name    string
	pattern *pattern.Pattern
	handler Handler[T]
}

// Registry manages providers with thread-safe operations. Registration order
// is dispatch order; nothing is merged, deduplicated or reordered.
type Registry[T any] struct {
	mu       sync.RWMutex
	entries  []registration[T]
	names    map[string]struct{}
	disabled map[string]struct{}

	matcher *pattern.Matcher
	log     *zap.Logger
	sink    FailureSink
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	log      *zap.Logger
	matcher  *pattern.Matcher
	sink     FailureSink
	disabled []string
}

// WithLogger sets the logger for handler failures. The pattern matcher
// shares it unless WithMatcher is also given.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMatcher sets the matcher used to evaluate provider patterns.
func WithMatcher(m *pattern.Matcher) Option {
	return func(o *options) { o.matcher = m }
}

// WithFailureSink forwards handler failures to sink.
func WithFailureSink(sink FailureSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithDisabled skips the named providers at dispatch time. Their
// registrations still occupy their slot and their names stay reserved.
func WithDisabled(names ...string) Option {
	return func(o *options) { o.disabled = append(o.disabled, names...) }
}

// New creates an empty registry.
func New[T any](opts ...Option) *Registry[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.matcher == nil {
		o.matcher = pattern.NewMatcher(pattern.WithLogger(o.log))
	}
	r := &Registry[T]{
		names:    make(map[string]struct{}),
		disabled: make(map[string]struct{}),
		matcher:  o.matcher,
		log:      o.log,
		sink:     o.sink,
	}
	for _, n := range o.disabled {
		r.disabled[n] = struct{}{}
	}
	return r
}

// Register appends a provider. Names must be unique and non-empty.
func (r *Registry[T]) Register(name string, p *pattern.Pattern, h Handler[T]) error {
	if name == "" {
		return fmt.Errorf("provider must have a non-empty name")
	}
	if p == nil {
		return fmt.Errorf("provider %q: %w", name, ErrNilPattern)
	}
	if h == nil {
		return fmt.Errorf("provider %q: %w", name, ErrNilHandler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[name]; exists {
		return fmt.Errorf("provider %q: %w", name, ErrDuplicateProvider)
	}
	r.names[name] = struct{}{}
	r.entries = append(r.entries, registration[T]{name: name, pattern: p, handler: h})
	return nil
}

// MustRegister is Register for setup code where a failure is a programming
// error.
func (r *Registry[T]) MustRegister(name string, p *pattern.Pattern, h Handler[T]) {
	if err := r.Register(name, p, h); err != nil {
		panic(err)
	}
}

// Providers lists provider names in registration order.
func (r *Registry[T]) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered providers.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Matching lists the names of enabled providers whose pattern matches pos,
// without invoking any handler.
func (r *Registry[T]) Matching(pos syntax.Node) []string {
	var names []string
	for _, e := range r.snapshot() {
		if _, off := r.disabled[e.name]; off {
			continue
		}
		if r.matcher.Match(e.pattern, pos) {
			names = append(names, e.name)
		}
	}
	return names
}

// Dispatch evaluates every provider's pattern against pos, in registration
// order and each with a fresh capture context, and invokes every matching
// handler. A handler that fails or panics is logged, reported to the
// failure sink and left out of the outcomes; the remaining providers still
// run.
func (r *Registry[T]) Dispatch(pos syntax.Node, trigger rune) []Outcome[T] {
	if pos == nil {
		return nil
	}
	var out []Outcome[T]
	for _, e := range r.snapshot() {
		if _, off := r.disabled[e.name]; off {
			continue
		}
		ctx, ok := r.matcher.MatchContext(e.pattern, pos)
		if !ok {
			continue
		}
		v, err := r.invoke(e, Request{Position: pos, Trigger: trigger, Captures: ctx})
		if err != nil {
			r.log.Error("provider failed",
				zap.String("provider", e.name),
				zap.Stringer("kind", pos.Kind()),
				zap.Error(err))
			if r.sink != nil {
				r.sink.HandlerFailed(e.name, pos, err)
			}
			continue
		}
		out = append(out, Outcome[T]{Provider: e.name, Value: v})
	}
	return out
}

func (r *Registry[T]) invoke(e registration[T], req Request) (v T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &pattern.PanicError{Value: rec}
		}
	}()
	return e.handler(req)
}

func (r *Registry[T]) snapshot() []registration[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[:len(r.entries):len(r.entries)]
}
