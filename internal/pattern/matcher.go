package pattern

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oxhq/rsmatch/internal/syntax"
)

// Tracer observes named conditions during evaluation.
type Tracer interface {
	ConditionRejected(name string, n syntax.Node)
	ConditionPanicked(name string, n syntax.Node, err error)
}

// PanicError wraps a value recovered from a panicking condition or handler.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a recovered error value to errors.Is and errors.As.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Matcher evaluates patterns. The zero value is not usable; use NewMatcher.
type Matcher struct {
	log    *zap.Logger
	tracer Tracer
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger routes condition failures to log.
func WithLogger(log *zap.Logger) Option {
	return func(m *Matcher) {
		if log != nil {
			m.log = log
		}
	}
}

// WithTracer reports rejections and failures of named conditions to t.
func WithTracer(t Tracer) Option {
	return func(m *Matcher) { m.tracer = t }
}

// NewMatcher creates a matcher. Without options it logs nowhere.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMatcher = NewMatcher()

// Matches evaluates p against n with a silent matcher.
func Matches(p *Pattern, n syntax.Node) bool {
	return defaultMatcher.Match(p, n)
}

// Match reports whether p accepts n.
func (m *Matcher) Match(p *Pattern, n syntax.Node) bool {
	return m.eval(p, n, NewContext())
}

// MatchContext evaluates p against n with a fresh context and returns it
// populated with captures when the match succeeds.
func (m *Matcher) MatchContext(p *Pattern, n syntax.Node) (*Context, bool) {
	ctx := NewContext()
	if !m.eval(p, n, ctx) {
		return nil, false
	}
	return ctx, true
}

// Evaluate matches p against n, adding captures to ctx only on success.
func (m *Matcher) Evaluate(p *Pattern, n syntax.Node, ctx *Context) bool {
	if ctx == nil {
		return m.Match(p, n)
	}
	scratch := ctx.fork()
	if !m.eval(p, n, scratch) {
		return false
	}
	scratch.commit()
	return true
}

func (m *Matcher) eval(p *Pattern, n syntax.Node, ctx *Context) bool {
	if p == nil || n == nil {
		return false
	}
	switch p.op {
	case opAny:
		return true
	case opKind:
		return p.kinds.Contains(n.Kind())
	case opText:
		return n.Text() == p.text
	case opCond:
		return m.test(p.cond, n, ctx)
	case opAnd:
		for _, s := range p.subs {
			if !m.eval(s, n, ctx) {
				return false
			}
		}
		return true
	case opOr:
		for _, s := range p.subs {
			if m.attempt(s, n, ctx) {
				return true
			}
		}
		return false
	case opNot:
		return !m.eval(p.subs[0], n, ctx.fork())
	case opParent:
		parent := n.Parent()
		return parent != nil && m.eval(p.subs[0], parent, ctx)
	case opSuperParent:
		ancestor := syntax.SuperParent(n, p.n)
		return ancestor != nil && m.eval(p.subs[0], ancestor, ctx)
	case opChild:
		for _, c := range n.Children() {
			if m.attempt(p.subs[0], c, ctx) {
				return true
			}
		}
		return false
	case opInside:
		return m.inside(p, n, ctx)
	case opPrevSibling:
		skip, want := p.subs[0], p.subs[1]
		for s := range syntax.LeftSiblings(n) {
			if m.eval(skip, s, ctx.fork()) {
				continue
			}
			return m.attempt(want, s, ctx)
		}
		return false
	}
	return false
}

func (m *Matcher) inside(p *Pattern, n syntax.Node, ctx *Context) bool {
	want := p.subs[0]
	var stop *Pattern
	if len(p.subs) > 1 {
		stop = p.subs[1]
	}
	e := n
	if p.strict {
		e = n.Parent()
	}
	for ; e != nil; e = e.Parent() {
		if stop != nil && m.eval(stop, e, ctx.fork()) {
			return false
		}
		if m.attempt(want, e, ctx) {
			return true
		}
	}
	return false
}

// attempt evaluates p in a scratch scope and keeps its captures on success.
func (m *Matcher) attempt(p *Pattern, n syntax.Node, ctx *Context) bool {
	scratch := ctx.fork()
	if !m.eval(p, n, scratch) {
		return false
	}
	scratch.commit()
	return true
}

func (m *Matcher) test(c *Condition, n syntax.Node, ctx *Context) (ok bool) {
	scratch := ctx.fork()
	defer func() {
		if r := recover(); r != nil {
			err := &PanicError{Value: r}
			m.log.Error("condition panicked",
				zap.String("condition", c.name),
				zap.Stringer("kind", n.Kind()),
				zap.Error(err))
			if m.tracer != nil {
				m.tracer.ConditionPanicked(c.name, n, err)
			}
			ok = false
		}
	}()
	if !c.test(n, scratch) {
		if ce := m.log.Check(zap.DebugLevel, "condition rejected"); ce != nil {
			ce.Write(zap.String("condition", c.name), zap.Stringer("kind", n.Kind()))
		}
		if m.tracer != nil {
			m.tracer.ConditionRejected(c.name, n)
		}
		return false
	}
	scratch.commit()
	return true
}
