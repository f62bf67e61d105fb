package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newManual returns a cache whose clock only moves when advanced.
func newManual[T any](ttl time.Duration) (*InMemory[T], func(time.Duration)) {
	c := New[T](ttl)
	c.Close()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	c.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return c, func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
}

func TestCache_SetGetExpire(t *testing.T) {
	c, advance := newManual[float64](10 * time.Minute)

	c.Set("max_ltv", 1250.5)
	v, ok := c.Get("max_ltv")
	require.True(t, ok)
	assert.Equal(t, 1250.5, v)

	advance(9 * time.Minute)
	_, ok = c.Get("max_ltv")
	assert.True(t, ok)

	advance(time.Minute)
	_, ok = c.Get("max_ltv")
	assert.False(t, ok, "entry must expire exactly at its TTL")
}

func TestCache_GetMissAndDelete(t *testing.T) {
	c, _ := newManual[string](time.Minute)

	_, ok := c.Get("nonexistent")
	assert.False(t, ok)

	c.Set("k", "v")
	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_EvictExpired(t *testing.T) {
	c, advance := newManual[int](time.Minute)
	c.Set("a", 1)
	advance(2 * time.Minute)
	c.Set("b", 2)

	c.evictExpired()

	assert.Len(t, c.items, 1)
	assert.Contains(t, c.items, "b")
}

func TestCache_NonPositiveTTLDisables(t *testing.T) {
	c := New[string](0)

	assert.False(t, c.Enabled())
	c.Set("k", "v")
	_, ok := c.Get("k")
	assert.False(t, ok)

	loads := 0
	for range 2 {
		_, hit, err := c.GetOrLoad("k", func() (string, error) { loads++; return "v", nil })
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 2, loads)
}

func TestCache_GetOrLoad(t *testing.T) {
	c, _ := newManual[int](time.Minute)

	v, hit, err := c.GetOrLoad("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)

	v, hit, err = c.GetOrLoad("k", func() (int, error) { return 8, nil })
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, v)
}

func TestCache_GetOrLoadDoesNotCacheErrors(t *testing.T) {
	c, _ := newManual[int](time.Minute)
	boom := errors.New("store down")

	_, _, err := c.GetOrLoad("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, hit, err := c.GetOrLoad("k", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, v)
}

func TestCache_GetOrLoadCoalescesConcurrentMisses(t *testing.T) {
	c, _ := newManual[int](time.Minute)
	var loads atomic.Int32

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.GetOrLoad("k", func() (int, error) {
				loads.Add(1)
				time.Sleep(10 * time.Millisecond)
				return 42, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
}
