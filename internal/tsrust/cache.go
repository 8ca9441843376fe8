package tsrust

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oxhq/rsmatch/internal/syntax"
)

// Cache keeps lowered trees keyed by source hash. Trees are immutable, so
// a cached tree is shared by every caller that parses the same source.
type Cache struct {
	entries   sync.Map
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	maxAge    time.Duration
	now       func() time.Time
}

type cachedTree struct {
	root      *syntax.Element
	timestamp time.Time
}

// NewCache creates a cache whose entries expire after maxAge. A zero or
// negative maxAge keeps entries forever.
func NewCache(maxAge time.Duration) *Cache {
	return &Cache{maxAge: maxAge, now: time.Now}
}

// Get returns the tree cached for src, if still fresh.
func (c *Cache) Get(src []byte, crateRoot bool) (*syntax.Element, bool) {
	key := c.key(src, crateRoot)
	if v, ok := c.entries.Load(key); ok {
		entry := v.(*cachedTree)
		if !c.expired(entry) {
			c.hits.Add(1)
			return entry.root, true
		}
		c.entries.Delete(key)
		c.evictions.Add(1)
	}
	c.misses.Add(1)
	c.pruneExpired()
	return nil, false
}

// Put stores root as the tree of src.
func (c *Cache) Put(src []byte, crateRoot bool, root *syntax.Element) {
	c.entries.Store(c.key(src, crateRoot), &cachedTree{root: root, timestamp: c.now()})
}

func (c *Cache) key(src []byte, crateRoot bool) string {
	sum := sha256.Sum256(src)
	key := hex.EncodeToString(sum[:])
	if crateRoot {
		key += ":crate"
	}
	return key
}

func (c *Cache) expired(entry *cachedTree) bool {
	return c.maxAge > 0 && c.now().Sub(entry.timestamp) > c.maxAge
}

func (c *Cache) pruneExpired() {
	if c.maxAge <= 0 {
		return
	}
	c.entries.Range(func(key, value any) bool {
		if c.expired(value.(*cachedTree)) {
			c.entries.Delete(key)
			c.evictions.Add(1)
		}
		return true
	})
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]int64 {
	return map[string]int64{
		"hits":      c.hits.Load(),
		"misses":    c.misses.Load(),
		"evictions": c.evictions.Load(),
		"hit_rate":  c.hits.Load() * 100 / (c.hits.Load() + c.misses.Load() + 1),
	}
}
