// Package pattern composes named conditions over syntax nodes into
// immutable patterns and evaluates them with a single recursive matcher.
//
// Patterns are values: every combinator returns a new Pattern and never
// modifies its operands, so patterns built once at startup can be shared by
// any number of goroutines.
package pattern

import (
	"fmt"
	"strings"

	"github.com/oxhq/rsmatch/internal/syntax"
)

// Condition is a named predicate over a node. The name identifies the
// condition in logs and traces; two conditions with the same name are still
// distinct values.
type Condition struct {
	name string
	test func(syntax.Node, *Context) bool
}

// NewCondition creates a condition. test may write captures into the
// context; they become visible only if the enclosing match succeeds.
func NewCondition(name string, test func(syntax.Node, *Context) bool) *Condition {
	if test == nil {
		panic("pattern: nil condition test for " + name)
	}
	return &Condition{name: name, test: test}
}

func (c *Condition) Name() string { return c.name }

type op uint8

const (
	opAny op = iota
	opKind
	opText
	opCond
	opAnd
	opOr
	opNot
	opParent
	opSuperParent
	opChild
	opInside
	opPrevSibling
)

// Pattern is an immutable tree of conditions and combinators.
type Pattern struct {
	op     op
	kinds  syntax.KindSet
	text   string
	cond   *Condition
	n      int
	strict bool
	subs   []*Pattern
}

var anyPattern = &Pattern{op: opAny}

// Any matches every node.
func Any() *Pattern { return anyPattern }

// Kind matches nodes whose kind is one of kinds.
func Kind(kinds ...syntax.Kind) *Pattern {
	return &Pattern{op: opKind, kinds: syntax.NewKindSet(kinds...)}
}

// Text matches nodes whose full text equals s.
func Text(s string) *Pattern {
	return &Pattern{op: opText, text: s}
}

// With matches nodes accepted by the named predicate.
func With(name string, test func(syntax.Node) bool) *Pattern {
	return Cond(NewCondition(name, func(n syntax.Node, _ *Context) bool { return test(n) }))
}

// WithContext is With for predicates that read or write captures.
func WithContext(name string, test func(syntax.Node, *Context) bool) *Pattern {
	return Cond(NewCondition(name, test))
}

// Cond lifts a condition into a pattern.
func Cond(c *Condition) *Pattern {
	return &Pattern{op: opCond, cond: c}
}

// Capture always matches and records the node under key.
func Capture(key string) *Pattern {
	return WithContext("capture "+key, func(n syntax.Node, ctx *Context) bool {
		ctx.Put(key, n)
		return true
	})
}

// And matches when every operand matches, evaluating left to right and
// stopping at the first failure.
func And(ps ...*Pattern) *Pattern {
	var subs []*Pattern
	for _, p := range ps {
		mustPattern(p)
		if p.op == opAnd {
			subs = append(subs, p.subs...)
		} else {
			subs = append(subs, p)
		}
	}
	if len(subs) == 1 {
		return subs[0]
	}
	return &Pattern{op: opAnd, subs: subs}
}

// Or matches when any operand matches, stopping at the first success. Only
// the captures of the succeeding operand are kept.
func Or(ps ...*Pattern) *Pattern {
	for _, p := range ps {
		mustPattern(p)
	}
	if len(ps) == 1 {
		return ps[0]
	}
	return &Pattern{op: opOr, subs: append([]*Pattern(nil), ps...)}
}

// Not matches when p does not. It never contributes captures.
func Not(p *Pattern) *Pattern {
	mustPattern(p)
	return &Pattern{op: opNot, subs: []*Pattern{p}}
}

// WithParent matches when the node has a parent matching p.
func WithParent(p *Pattern) *Pattern {
	mustPattern(p)
	return &Pattern{op: opParent, subs: []*Pattern{p}}
}

// WithSuperParent matches when the ancestor exactly n parent links up exists
// and matches p. A nearer or farther matching ancestor does not count.
func WithSuperParent(n int, p *Pattern) *Pattern {
	mustPattern(p)
	if n < 0 {
		panic(fmt.Sprintf("pattern: negative ancestor distance %d", n))
	}
	return &Pattern{op: opSuperParent, n: n, subs: []*Pattern{p}}
}

// WithChild matches when some direct child matches p.
func WithChild(p *Pattern) *Pattern {
	mustPattern(p)
	return &Pattern{op: opChild, subs: []*Pattern{p}}
}

// Inside walks ancestors, starting at the node itself unless strict, and
// matches when p accepts one before stop does. At every level stop is
// tested first, so a node accepted by both ends the walk with a failure.
// A nil stop never stops the walk.
func Inside(strict bool, p, stop *Pattern) *Pattern {
	mustPattern(p)
	subs := []*Pattern{p}
	if stop != nil {
		subs = append(subs, stop)
	}
	return &Pattern{op: opInside, strict: strict, subs: subs}
}

// WithPrevSiblingSkipping matches when the nearest previous sibling not
// accepted by skip matches p.
func WithPrevSiblingSkipping(skip, p *Pattern) *Pattern {
	mustPattern(skip)
	mustPattern(p)
	return &Pattern{op: opPrevSibling, subs: []*Pattern{skip, p}}
}

func (p *Pattern) And(q ...*Pattern) *Pattern {
	return And(append([]*Pattern{p}, q...)...)
}

func (p *Pattern) Or(q ...*Pattern) *Pattern {
	return Or(append([]*Pattern{p}, q...)...)
}

func (p *Pattern) WithParent(q *Pattern) *Pattern { return And(p, WithParent(q)) }

func (p *Pattern) WithSuperParent(n int, q *Pattern) *Pattern {
	return And(p, WithSuperParent(n, q))
}

func (p *Pattern) WithChild(q *Pattern) *Pattern { return And(p, WithChild(q)) }

func (p *Pattern) Inside(strict bool, q, stop *Pattern) *Pattern {
	return And(p, Inside(strict, q, stop))
}

func (p *Pattern) WithText(s string) *Pattern { return And(p, Text(s)) }

func (p *Pattern) With(name string, test func(syntax.Node) bool) *Pattern {
	return And(p, With(name, test))
}

func (p *Pattern) WithContext(name string, test func(syntax.Node, *Context) bool) *Pattern {
	return And(p, WithContext(name, test))
}

func (p *Pattern) WithPrevSiblingSkipping(skip, q *Pattern) *Pattern {
	return And(p, WithPrevSiblingSkipping(skip, q))
}

func (p *Pattern) Capture(key string) *Pattern { return And(p, Capture(key)) }

func mustPattern(p *Pattern) {
	if p == nil {
		panic("pattern: nil operand")
	}
}

// String renders the pattern for diagnostics.
func (p *Pattern) String() string {
	var sb strings.Builder
	p.write(&sb)
	return sb.String()
}

func (p *Pattern) write(sb *strings.Builder) {
	switch p.op {
	case opAny:
		sb.WriteString("any")
	case opKind:
		sb.WriteString("kind(")
		first := true
		for k := syntax.Kind(0); k < 64; k++ {
			if p.kinds.Contains(k) {
				if !first {
					sb.WriteByte('|')
				}
				sb.WriteString(k.String())
				first = false
			}
		}
		sb.WriteByte(')')
	case opText:
		fmt.Fprintf(sb, "text(%q)", p.text)
	case opCond:
		fmt.Fprintf(sb, "with(%s)", p.cond.name)
	case opSuperParent:
		fmt.Fprintf(sb, "withSuperParent(%d, ", p.n)
		p.subs[0].write(sb)
		sb.WriteByte(')')
	case opInside:
		fmt.Fprintf(sb, "inside(%t", p.strict)
		for _, s := range p.subs {
			sb.WriteString(", ")
			s.write(sb)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(opNames[p.op])
		sb.WriteByte('(')
		for i, s := range p.subs {
			if i > 0 {
				sb.WriteString(", ")
			}
			s.write(sb)
		}
		sb.WriteByte(')')
	}
}

var opNames = map[op]string{
	opAnd:         "and",
	opOr:          "or",
	opNot:         "not",
	opParent:      "withParent",
	opChild:       "withChild",
	opPrevSibling: "withPrevSiblingSkipping",
}
