package viewstate

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ResponseCache is the short-TTL, bounded response cache behind a list view.
// Keys combine method, arguments, and acting user; exceeding the bound
// evicts the least recently used entry.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	clock   Clock
	entries map[string]*cacheEntry
	order   []string // LRU order, most recently used last
}

type cacheEntry struct {
	value    interface{}
	storedAt time.Time
}

func NewResponseCache(ttl time.Duration, maxEntries int, clock Clock) *ResponseCache {
	if maxEntries <= 0 {
		maxEntries = 32
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &ResponseCache{
		ttl:     ttl,
		max:     maxEntries,
		clock:   clock,
		entries: make(map[string]*cacheEntry, maxEntries),
	}
}

// Key builds a cache key from method, actor, and arguments.
func Key(method, actor string, args ...interface{}) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, method, actor)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, "|")
}

func (c *ResponseCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.clock.Now().Sub(e.storedAt) >= c.ttl {
		c.remove(key)
		return nil, false
	}
	c.touch(key)
	return e.value, true
}

func (c *ResponseCache) Put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &cacheEntry{value: value, storedAt: c.clock.Now()}
		c.touch(key)
		return
	}
	for len(c.entries) >= c.max {
		c.remove(c.order[0])
	}
	c.entries[key] = &cacheEntry{value: value, storedAt: c.clock.Now()}
	c.order = append(c.order, key)
}

func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResponseCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *ResponseCache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(append(c.order[:i], c.order[i+1:]...), key)
			return
		}
	}
	c.order = append(c.order, key)
}
