package mtbdd

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colibri-dd/mtbdd/encoding"
)

func freshEngine(t *testing.T, capacity uint32) {
	t.Helper()
	Init(Config{TableCapacity: capacity, TableShards: 8, Workers: 4})
	t.Cleanup(Quit)
}

func TestMakeNodeRedundancyCollapse(t *testing.T) {
	freshEngine(t, 64)
	x := Uint64(7)
	got := MakeNode(Worker0, 3, x, x)
	assert.Equal(t, x, got, "make_node(v, x, x) must collapse to x")
}

func TestMakeNodeCanonicity(t *testing.T) {
	freshEngine(t, 64)
	low := Uint64(0)
	high := Uint64(1)

	a := MakeNode(Worker0, 2, low, high)
	b := MakeNode(Worker0, 2, low, high)
	assert.Equal(t, a, b, "identical (var, low, high) must return the same handle")
}

func TestMakeNodeNormalizesComplementedLow(t *testing.T) {
	freshEngine(t, 64)
	x := Uint64(5)
	leaf := Uint64(1)
	complemented := leaf.ToggleMark()

	// The low argument carries a complement bit; CANON-2 requires
	// MakeNode to push that bit onto the result (and the high edge)
	// instead of storing it on low. GetLow never transfers a parent's
	// complement bit (spec §4.2), so it reports the plain leaf; GetHigh
	// still round-trips to the semantics the caller asked for.
	n := MakeNode(Worker0, 1, complemented, x)
	assert.Equal(t, leaf, GetLow(n))
	assert.Equal(t, x, GetHigh(n))
}

func TestMakeNodeConcurrentCanonicity(t *testing.T) {
	freshEngine(t, 256)
	x := Uint64(9)

	const n = 32
	results := make([]MTBDD, n)
	// A worker's in-flight stack is owner-only, so goroutines sharing a
	// WorkerID take turns; the four workers still race each other.
	var workerMu [4]sync.Mutex
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			workerMu[i%4].Lock()
			defer workerMu[i%4].Unlock()
			results[i] = MakeNode(WorkerID(i%4), 4, False, x)
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

func TestLeafUniqueness(t *testing.T) {
	freshEngine(t, 64)
	a := Uint64(123456789)
	b := Uint64(123456789)
	assert.Equal(t, a, b)
}

func TestDoubleSignEncoding(t *testing.T) {
	freshEngine(t, 64)
	pos := Double(1.5)
	neg := Double(-1.5)

	assert.Equal(t, pos.ToggleMark(), neg)
	assert.InDelta(t, 1.5, GetDouble(pos), 1e-12)
	assert.InDelta(t, -1.5, GetDouble(neg), 1e-12)
	assert.Equal(t, encoding.TypeDouble, GetType(neg))
}

func TestDoubleZeroAndPositiveAreUncomplemented(t *testing.T) {
	freshEngine(t, 64)
	assert.False(t, Double(0).HasMark())
	assert.False(t, Double(2.25).HasMark())
}

func TestRefProtectCounts(t *testing.T) {
	freshEngine(t, 64)
	x := Uint64(1)
	Ref(x)
	assert.Equal(t, 1, CountRefs())
	Deref(x)
	assert.Equal(t, 0, CountRefs())

	h := Uint64(2)
	Protect(&h)
	assert.GreaterOrEqual(t, CountProtected(), 1)
	Unprotect(&h)
}

func TestFromArrayBuildsConjunction(t *testing.T) {
	freshEngine(t, 64)
	d := FromArray(Worker0, []uint32{0, 1, 2})
	assert.Equal(t, 3, NodeCount(d))
}
