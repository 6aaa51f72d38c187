package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairKey struct{ n, k int }

func TestNewRejectsInvalidCapacity(t *testing.T) {
	t.Parallel()
	for _, capacity := range []int{0, -1, -100} {
		_, err := New[pairKey, int](capacity)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidCapacity))
	}
}

func TestGetOrComputeMemoizes(t *testing.T) {
	t.Parallel()
	c := MustNew[pairKey, int](8)
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := c.GetOrCompute(pairKey{3, 1}, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrCompute(pairKey{3, 1}, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 8, stats.Capacity)
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	t.Parallel()
	c := MustNew[string, float64](4)
	boom := errors.New("boom")

	_, err := c.GetOrCompute("x", func() (float64, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := c.GetOrCompute("x", func() (float64, error) { return 1.5, nil })
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
}

func TestCacheIsBounded(t *testing.T) {
	t.Parallel()
	c := MustNew[int, int](3)
	for i := 0; i < 10; i++ {
		c.Add(i, i*i)
	}
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, uint64(7), c.Stats().Evictions)

	_, ok := c.Get(0)
	assert.False(t, ok, "oldest entry should have been evicted")
	v, ok := c.Get(9)
	assert.True(t, ok)
	assert.Equal(t, 81, v)
}

func TestReset(t *testing.T) {
	t.Parallel()
	c := MustNew[int, int](4)
	c.Add(1, 1)
	c.Get(1)
	c.Get(2)
	c.Reset()

	stats := c.Stats()
	assert.Equal(t, Stats{Capacity: 4}, stats)
}

func TestConcurrentPopulationAgrees(t *testing.T) {
	t.Parallel()
	c := MustNew[pairKey, int](64)
	var computed atomic.Int64
	var wg sync.WaitGroup
	results := make([]int, 32)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute(pairKey{i % 4, 0}, func() (int, error) {
				computed.Add(1)
				return (i % 4) * 10, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	for i, v := range results {
		assert.Equal(t, (i%4)*10, v)
	}
	assert.LessOrEqual(t, computed.Load(), int64(32))
	assert.Equal(t, 4, c.Len())
}
