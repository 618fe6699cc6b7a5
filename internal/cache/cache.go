// Package cache provides a small bounded map with least-recently-inserted
// eviction. Entries are immutable once written and keys are deterministic
// functions of their inputs, so concurrent readers and writers only need the
// mutex for map/ring bookkeeping.
package cache

import "sync"

// Bounded is a capacity-limited string-keyed cache. When full, the oldest
// inserted entry is evicted first.
type Bounded struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]interface{}
	order    []string
}

// NewBounded creates a cache holding at most capacity entries.
// Capacity below 1 is clamped to 1.
func NewBounded(capacity int) *Bounded {
	if capacity < 1 {
		capacity = 1
	}
	return &Bounded{
		capacity: capacity,
		entries:  make(map[string]interface{}, capacity),
	}
}

// Get returns the cached value for key, if present.
func (c *Bounded) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores value under key, evicting the oldest entry when full.
// Re-inserting an existing key overwrites in place without changing its
// eviction position.
func (c *Bounded) Put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *Bounded) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
