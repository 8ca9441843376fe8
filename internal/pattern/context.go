package pattern

import (
	"sort"

	"github.com/oxhq/rsmatch/internal/syntax"
)

// Context carries the captures of one evaluation. A fresh Context belongs to
// each top-level match; it is not safe for concurrent use.
type Context struct {
	parent *Context
	vals   map[string]syntax.Node
}

// NewContext returns an empty context.
func NewContext() *Context { return &Context{} }

// Put records n under key.
func (c *Context) Put(key string, n syntax.Node) {
	if c.vals == nil {
		c.vals = make(map[string]syntax.Node)
	}
	c.vals[key] = n
}

// Get returns the node captured under key.
func (c *Context) Get(key string) (syntax.Node, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if n, ok := cur.vals[key]; ok {
			return n, true
		}
	}
	return nil, false
}

// Node returns the node captured under key, or nil.
func (c *Context) Node(key string) syntax.Node {
	n, _ := c.Get(key)
	return n
}

// Keys lists the capture keys visible from c, sorted.
func (c *Context) Keys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for cur := c; cur != nil; cur = cur.parent {
		for k := range cur.vals {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of visible captures.
func (c *Context) Len() int { return len(c.Keys()) }

// fork opens a scratch scope whose writes reach c only through commit.
func (c *Context) fork() *Context { return &Context{parent: c} }

func (c *Context) commit() {
	for k, v := range c.vals {
		c.parent.Put(k, v)
	}
}
