// Package cache keeps fetched API collections in memory between calls.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	slot  uint64
	value V
}

// Collection is an ordered set of items keyed by K with a fetch timestamp.
// It is safe for concurrent use.
type Collection[K comparable, V any] struct {
	mu        sync.RWMutex
	ttl       time.Duration
	key       func(V) K
	entries   []entry[V]
	nextSlot  uint64
	fetchedAt time.Time
	now       func() time.Time
}

// NewCollection creates an empty collection whose contents stay valid for ttl.
// A zero ttl disables caching: the collection is never valid.
func NewCollection[K comparable, V any](ttl time.Duration, key func(V) K) *Collection[K, V] {
	return &Collection[K, V]{
		ttl: ttl,
		key: key,
		now: time.Now,
	}
}

// Valid reports whether the collection was filled and has not expired.
func (c *Collection[K, V]) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validLocked()
}

func (c *Collection[K, V]) validLocked() bool {
	if c.fetchedAt.IsZero() || c.ttl <= 0 {
		return false
	}
	return c.now().Sub(c.fetchedAt) < c.ttl
}

// Replace stores a freshly fetched list and resets the timestamp.
func (c *Collection[K, V]) Replace(items []V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make([]entry[V], 0, len(items))
	for _, v := range items {
		c.entries = append(c.entries, c.newEntryLocked(v))
	}
	c.fetchedAt = c.now()
}

// Items returns a copy of the cached list and whether it is still valid.
func (c *Collection[K, V]) Items() ([]V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]V, 0, len(c.entries))
	for _, e := range c.entries {
		items = append(items, e.value)
	}
	return items, c.validLocked()
}

// Get returns the cached item with key k.
func (c *Collection[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(k); i >= 0 {
		return c.entries[i].value, true
	}
	var zero V
	return zero, false
}

// Insert appends v without looking at its key, for items the server has not
// assigned a key to yet. The returned function removes exactly this entry.
func (c *Collection[K, V]) Insert(v V) (undo func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.newEntryLocked(v)
	c.entries = append(c.entries, e)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i := range c.entries {
			if c.entries[i].slot == e.slot {
				c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
				return
			}
		}
	}
}

// Upsert replaces the item with the same key or appends v.
// The returned function restores the previous state.
func (c *Collection[K, V]) Upsert(v V) (undo func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(v)
	i := c.indexLocked(k)
	if i < 0 {
		c.entries = append(c.entries, c.newEntryLocked(v))
		return func() { c.Remove(k) }
	}

	prev := c.entries[i].value
	c.entries[i].value = v
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if j := c.indexLocked(k); j >= 0 {
			c.entries[j].value = prev
		}
	}
}

// Remove deletes the item with key k.
// The returned function puts it back at its former position.
func (c *Collection[K, V]) Remove(k K) (undo func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(k)
	if i < 0 {
		return func() {}
	}

	prev := c.entries[i]
	c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.indexLocked(k) >= 0 {
			return
		}
		pos := min(i, len(c.entries))
		c.entries = append(c.entries[:pos:pos], append([]entry[V]{prev}, c.entries[pos:]...)...)
	}
}

// Invalidate forces the next read to go to the server. Items are kept.
func (c *Collection[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}

func (c *Collection[K, V]) newEntryLocked(v V) entry[V] {
	c.nextSlot++
	return entry[V]{slot: c.nextSlot, value: v}
}

func (c *Collection[K, V]) indexLocked(k K) int {
	for i, e := range c.entries {
		if c.key(e.value) == k {
			return i
		}
	}
	return -1
}
