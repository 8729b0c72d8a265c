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

func TestGetOrComputeCachesValue(t *testing.T) {
	c := New[int](time.Hour)

	var calls int
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls, "second call should be served from cache")
}

func TestExpiredEntryIsRecomputed(t *testing.T) {
	c := New[string](30 * time.Minute)

	current := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	var calls int
	compute := func() (string, error) {
		calls++
		return "v", nil
	}

	_, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)

	// Just inside the TTL: still a hit.
	current = current.Add(29 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)

	// Past the TTL: miss, recompute.
	current = current.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	_, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNegativeResultIsCached(t *testing.T) {
	c := New[*int](time.Hour)

	var calls int
	v, err := c.GetOrCompute("missing", func() (*int, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = c.GetOrCompute("missing", func() (*int, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, 1, calls, "cached nil should not be re-queried")
}

func TestComputeErrorIsNotCached(t *testing.T) {
	c := New[int](time.Hour)

	var calls int
	_, err := c.GetOrCompute("k", func() (int, error) {
		calls++
		return 0, errors.New("upstream down")
	})
	require.Error(t, err)

	v, err := c.GetOrCompute("k", func() (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestConcurrentMissesCollapse(t *testing.T) {
	c := New[int](time.Hour)

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() (int, error) {
		calls.Add(1)
		<-release
		return 9, nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	results := make([]int, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute("k", compute)
			if err != nil {
				t.Error(err)
			}
			results[i] = v
		}(i)
	}

	// Give the goroutines a moment to pile up on the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent misses should collapse to one compute")
	for _, v := range results {
		assert.Equal(t, 9, v)
	}
}

func TestBoundedEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewBounded[int](time.Hour, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts "a"

	_, ok := c.Get("a")
	assert.False(t, ok)
	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, c.Len())
}
