package api

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewResultCache(2)
	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))

	// Touch a so b is the oldest.
	_, ok := c.Get("a")
	assert.True(t, ok)
	c.Put("c", []byte("3"))

	_, ok = c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", string(v))
	assert.Equal(t, 2, c.Len())

	c.Put("a", []byte("updated"))
	v, _ = c.Get("a")
	assert.Equal(t, "updated", string(v))
}

func TestResultCacheDisabled(t *testing.T) {
	c := NewResultCache(0)
	assert.Nil(t, c)
	c.Put("a", []byte("1"))
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Purge()
}

func TestResultCacheConcurrent(t *testing.T) {
	c := NewResultCache(8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			c.Put(key, []byte(key))
			c.Get(key)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 8)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("succession", map[string]int{"limit": 3})
	assert.Len(t, a, 64)
	assert.Equal(t, a, CacheKey("succession", map[string]int{"limit": 3}))
	assert.NotEqual(t, a, CacheKey("succession", map[string]int{"limit": 4}))
	assert.Equal(t, "", CacheKey(make(chan int)))
}
