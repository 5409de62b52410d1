package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// ResultCache is a thread-safe LRU cache for encoded engine results.
type ResultCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string][]byte
	order   []string // oldest first
}

// NewResultCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it returns nil and callers skip caching.
func NewResultCache(maxSize int) *ResultCache {
	if maxSize <= 0 {
		return nil
	}
	return &ResultCache{
		maxSize: maxSize,
		entries: make(map[string][]byte),
	}
}

// CacheKey hashes a request into a cache key. Values must be JSON
// encodable; anything else yields "" and is not cached.
func CacheKey(parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get retrieves a result from the cache.
func (c *ResultCache) Get(key string) ([]byte, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	// Move to end (most recently used)
	c.moveToEnd(key)
	return data, true
}

// Put adds a result to the cache, evicting the oldest if full.
func (c *ResultCache) Put(key string, data []byte) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = data
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = data
	c.order = append(c.order, key)
}

// Purge drops every entry. Called when the catalog changes.
func (c *ResultCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.order = nil
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
