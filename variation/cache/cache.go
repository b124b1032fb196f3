// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package cache memoizes fingerprint-keyed results (region scalars, whole
// instance bundles) under concurrent access, per SPEC_FULL.md §4.9. No
// example repo in the retrieval pack ships a cache; this is implemented
// directly against the lock-release-recompute discipline of SPEC_FULL.md
// §4.9/§5, reusing the stdlib `container/list` LRU idiom rather than
// pulling in an ecosystem cache library (see DESIGN.md).
package cache

import (
	"container/list"
	"regexp"
	"sync"
	"time"
)

// Fingerprint is a cache key: a canonicalized design-space or font-identity
// string. See the KeyScalar/KeyInstance helpers in fingerprint.go.
type Fingerprint string

// Options configures a Cache. A zero Options is usable: MaxSize 0 means
// unbounded, TTL 0 means entries never expire.
type Options struct {
	MaxSize int
	TTL     time.Duration
}

type entry struct {
	key       Fingerprint
	value     any
	storedAt  time.Time
	listElem  *list.Element
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits          int64
	Misses        int64
	Evictions     int64
	Invalidations int64
	Size          int
	HitRate       float64
}

// Cache is a bounded, TTL-aware, concurrency-safe memoization table. The
// zero value is not usable; construct with New.
type Cache struct {
	mu      sync.Mutex
	opts    Options
	entries map[Fingerprint]*entry
	order   *list.List // front = most recently used

	hits, misses, evictions, invalidations int64
}

// New constructs a Cache with the given options.
func New(opts Options) *Cache {
	return &Cache{
		opts:    opts,
		entries: make(map[Fingerprint]*entry),
		order:   list.New(),
	}
}

// Fetch returns the cached value for key, computing it via produce on a
// miss. produce is always called outside the lock (SPEC_FULL.md §4.9/§5):
// under contention two callers may both call produce for the same key, but
// neither ever blocks behind the other's computation, and the mutex is
// never held while produce runs.
func (c *Cache) Fetch(key Fingerprint, produce func() (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	v, err := produce()
	if err != nil {
		return nil, err
	}

	c.insert(key, v)
	return v, nil
}

func (c *Cache) lookup(key Fingerprint) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.opts.TTL > 0 && time.Since(e.storedAt) > c.opts.TTL {
		c.removeLocked(e)
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(e.listElem)
	c.hits++
	return e.value, true
}

func (c *Cache) insert(key Fingerprint, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		existing.value = v
		existing.storedAt = time.Now()
		c.order.MoveToFront(existing.listElem)
		return
	}

	e := &entry{key: key, value: v, storedAt: time.Now()}
	e.listElem = c.order.PushFront(e)
	c.entries[key] = e

	if c.opts.MaxSize > 0 {
		for len(c.entries) > c.opts.MaxSize {
			back := c.order.Back()
			if back == nil {
				break
			}
			c.removeLocked(back.Value.(*entry))
			c.evictions++
		}
	}
}

// removeLocked removes e from both the map and the LRU list. Caller must
// hold c.mu.
func (c *Cache) removeLocked(e *entry) {
	delete(c.entries, e.key)
	c.order.Remove(e.listElem)
}

// InvalidateKey removes one entry, if present.
func (c *Cache) InvalidateKey(key Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.removeLocked(e)
		c.invalidations++
	}
}

// InvalidateMatching removes every entry whose key matches re.
func (c *Cache) InvalidateMatching(re *regexp.Regexp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if re.MatchString(string(key)) {
			c.removeLocked(e)
			c.invalidations++
		}
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := int64(len(c.entries))
	c.entries = make(map[Fingerprint]*entry)
	c.order = list.New()
	c.invalidations += n
}

// Stats returns a snapshot of cache activity under the same mutex used by
// every other operation.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	var rate float64
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
		Invalidations: c.invalidations,
		Size:          len(c.entries),
		HitRate:       rate,
	}
}
