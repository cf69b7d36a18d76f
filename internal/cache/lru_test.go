package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU(t *testing.T) {
	c := NewLRU[int, string](2)

	c.Set(1, "a")
	c.Set(2, "b")
	assert.Equal(t, 2, c.Len())

	// Touch 1 so that 2 becomes least recently used.
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	c.Set(3, "c")
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get(2)
	assert.False(t, ok, "2 should be evicted")

	_, ok = c.Get(1)
	assert.True(t, ok, "1 should be present")

	_, ok = c.Get(3)
	assert.True(t, ok, "3 should be present")

	hits, misses, evictions := c.Stats()
	assert.Equal(t, int64(3), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(1), evictions)
}

func TestLRU_Update(t *testing.T) {
	c := NewLRU[int, string](2)
	c.Set(1, "a")
	c.Set(1, "b")

	v, _ := c.Get(1)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_ZeroCapacity(t *testing.T) {
	c := NewLRU[int, int](0)
	c.Set(1, 1)
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestLRU_Invalidation(t *testing.T) {
	c := NewLRU[int, int](10)
	for i := range 6 {
		c.Set(i, i*i)
	}

	assert.True(t, c.Remove(0))
	assert.False(t, c.Remove(0))

	assert.True(t, c.Remove(2))
	assert.Equal(t, 4, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[int, int](16)
	var wg sync.WaitGroup
	for g := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				c.Set(g*100+i, i)
				c.Get(g*100 + i)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
