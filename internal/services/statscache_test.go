package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCache_GetSet(t *testing.T) {
	c := NewStatsCache(10, time.Minute)

	_, ok := c.Get("stats")
	assert.False(t, ok)

	c.Set("stats", 42)
	v, ok := c.Get("stats")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestStatsCache_TTLExpiry(t *testing.T) {
	c := NewStatsCache(10, 2*time.Minute)

	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("stats", "payload")

	// Just inside the TTL
	current = current.Add(2*time.Minute - time.Second)
	_, ok := c.Get("stats")
	assert.True(t, ok)

	// Past the TTL
	current = current.Add(2 * time.Second)
	_, ok = c.Get("stats")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestStatsCache_LRUEvictionOnInsert(t *testing.T) {
	c := NewStatsCache(3, time.Minute)

	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("a", 1)
	current = current.Add(time.Second)
	c.Set("b", 2)
	current = current.Add(time.Second)
	c.Set("c", 3)

	// Touch "a" so "b" becomes least recently used
	current = current.Add(time.Second)
	_, ok := c.Get("a")
	require.True(t, ok)

	current = current.Add(time.Second)
	c.Set("d", 4)

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	for _, key := range []string{"a", "c", "d"} {
		_, ok := c.Get(key)
		assert.True(t, ok, "entry %q should survive eviction", key)
	}
}

func TestStatsCache_CapacityBound(t *testing.T) {
	c := NewStatsCache(10, time.Minute)

	for i := 0; i < 25; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	assert.LessOrEqual(t, c.Len(), 10)
}

func TestStatsCache_UpdateExistingDoesNotEvict(t *testing.T) {
	c := NewStatsCache(2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 99) // overwrite, cache stays at capacity

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 99, v)
	_, ok = c.Get("b")
	assert.True(t, ok)
}
