package unique

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDeduplicates(t *testing.T) {
	tb := New(Config{Capacity: 16})

	idx1, created1 := tb.Lookup(1, 2)
	idx2, created2 := tb.Lookup(1, 2)

	assert.True(t, created1)
	assert.False(t, created2)
	assert.Equal(t, idx1, idx2)
	assert.Equal(t, 1, tb.Size())
}

func TestLookupConcurrentSameContentReturnsOneIndex(t *testing.T) {
	tb := New(Config{Capacity: 64})

	const n = 64
	indices := make([]uint32, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			idx, _ := tb.Lookup(7, 9)
			indices[i] = idx
		}()
	}
	wg.Wait()

	for _, idx := range indices {
		assert.Equal(t, indices[0], idx)
	}
	assert.Equal(t, 1, tb.Size())
}

func TestLookupFullReturnsZero(t *testing.T) {
	tb := New(Config{Capacity: 2})

	_, ok1 := tb.Lookup(1, 1)
	_, ok2 := tb.Lookup(2, 2)
	idx3, ok3 := tb.Lookup(3, 3)

	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, uint32(0), idx3)
	assert.False(t, ok3)
}

func TestMarkIsIdempotentPerCycle(t *testing.T) {
	tb := New(Config{Capacity: 4})
	idx, _ := tb.Lookup(1, 1)

	assert.True(t, tb.Mark(idx))
	assert.False(t, tb.Mark(idx))
	assert.Equal(t, 1, tb.CountMarked())
}

func TestSweepReclaimsUnmarkedAndResetsMarks(t *testing.T) {
	tb := New(Config{Capacity: 4})
	keep, _ := tb.Lookup(1, 1)
	_, _ = tb.Lookup(2, 2)

	tb.Mark(keep)
	reclaimed := tb.Sweep()

	assert.Equal(t, 1, reclaimed)
	assert.Equal(t, 1, tb.Size())
	assert.Equal(t, 0, tb.CountMarked())

	a, b, ok := tb.Content(keep)
	require.True(t, ok)
	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(1), b)
}

func TestSweepFreesCapacityForReuse(t *testing.T) {
	tb := New(Config{Capacity: 1})
	idx, ok := tb.Lookup(1, 1)
	require.True(t, ok)

	// Nothing marked: everything is reclaimed.
	reclaimed := tb.Sweep()
	require.Equal(t, 1, reclaimed)

	newIdx, created := tb.Lookup(2, 2)
	require.True(t, created)
	assert.Equal(t, idx, newIdx) // reused from the free list
}
