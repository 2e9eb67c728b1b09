// Package unique implements the canonical node table (spec component B): a
// concurrent, content-addressed hash-cons store of 16-byte buckets. It owns
// every node; callers identify a node only by its content (a, b) and get
// back a 40-bit index, with storage guaranteeing that a given content is
// never represented by more than one index (spec invariants CANON-3,
// LEAF-1).
//
// The table has no notion of variables, leaves, or complement edges — that
// semantics lives in mtbdd/encoding and the root mtbdd package. It is
// sharded the way the teacher's cache package shards its eviction
// structures: one mutex and one Go map per shard, generalized here from a
// single global lock to Config.Shards independent locks so concurrent inserts
// that hash to different shards never contend.
package unique

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// content is the 16-byte key the table hash-conses on.
type content struct {
	a, b uint64
}

func (c content) hash() uint64 {
	var buf [16]byte
	putUint64(buf[0:8], c.a)
	putUint64(buf[8:16], c.b)
	return xxhash.Sum64(buf[:])
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

// slot is one table entry. mark and used are accessed concurrently by
// lookups, the GC mark phase, and sweep; content is written once at
// insertion and never mutated afterward, so it needs no synchronization of
// its own.
type slot struct {
	content
	used atomic.Bool
	mark atomic.Bool

	// traversal is a second mark bit, orthogonal to mark (spec §4.6.3,
	// §4.7): used by unsynchronized single-threaded walks (nodecount,
	// fprintdot) and left untouched by Sweep, which only ever inspects
	// and clears mark.
	traversal atomic.Bool
}

type shard struct {
	mu  sync.RWMutex
	idx map[content]uint32
}

// Table is the canonical node store. Capacity is fixed at construction
// (spec §4.1: lookup returns 0, meaning full, rather than growing
// unboundedly); Config.Shards shards spread lock contention across concurrent
// inserters.
type Table struct {
	shards    []shard
	shardMask uint64

	slots    []slot // index 0 unused: index 0 never denotes a stored node
	capacity uint32

	next atomic.Uint32 // next never-yet-used index, monotonic

	freeMu   sync.Mutex
	freeList []uint32 // indices reclaimed by Sweep, reused before growing next
}

// Config controls table construction.
type Config struct {
	// Capacity is the maximum number of live nodes the table can hold.
	Capacity uint32
	// Shards is the number of independent lock/map shards; rounded up to
	// a power of two. Defaults to 64.
	Shards uint32
}

// New creates a Table with the given configuration.
func New(cfg Config) *Table {
	if cfg.Capacity == 0 {
		cfg.Capacity = 1 << 20
	}
	shardCount := cfg.Shards
	if shardCount == 0 {
		shardCount = 64
	}
	shardCount = nextPow2(shardCount)

	t := &Table{
		shards:   make([]shard, shardCount),
		slots:    make([]slot, cfg.Capacity+1), // +1: index 0 reserved
		capacity: cfg.Capacity,
	}
	t.shardMask = uint64(shardCount - 1)
	t.next.Store(1)
	for i := range t.shards {
		t.shards[i].idx = make(map[content]uint32)
	}
	return t
}

func nextPow2(n uint32) uint32 {
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}

func (t *Table) shardFor(h uint64) *shard { return &t.shards[h&t.shardMask] }

// Lookup returns the index for content (a, b), inserting it if absent.
// Returns (0, false) if the table is full and the content was not already
// present — the caller (mtbdd.MakeLeaf/MakeNode) interprets this as
// TableFull and triggers GC.
func (t *Table) Lookup(a, b uint64) (index uint32, created bool) {
	c := content{a, b}
	h := c.hash()
	sh := t.shardFor(h)

	sh.mu.RLock()
	if idx, ok := sh.idx[c]; ok {
		sh.mu.RUnlock()
		return idx, false
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	// Re-check: another writer may have inserted it between the RUnlock
	// and this Lock.
	if idx, ok := sh.idx[c]; ok {
		return idx, false
	}

	idx, ok := t.allocate()
	if !ok {
		return 0, false
	}
	s := &t.slots[idx]
	s.content = c
	s.mark.Store(false)
	s.used.Store(true)
	sh.idx[c] = idx
	return idx, true
}

func (t *Table) allocate() (uint32, bool) {
	t.freeMu.Lock()
	if n := len(t.freeList); n > 0 {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.freeMu.Unlock()
		return idx, true
	}
	t.freeMu.Unlock()

	for {
		idx := t.next.Load()
		if idx > t.capacity {
			return 0, false
		}
		if t.next.CompareAndSwap(idx, idx+1) {
			return idx, true
		}
	}
}

// Content returns the stored (a, b) for index, or ok=false if index is out
// of range or currently free.
func (t *Table) Content(index uint32) (a, b uint64, ok bool) {
	if index == 0 || index >= uint32(len(t.slots)) {
		return 0, 0, false
	}
	s := &t.slots[index]
	if !s.used.Load() {
		return 0, 0, false
	}
	return s.a, s.b, true
}

// Mark sets index's reachability bit. Returns true the first time it is set
// during the current GC cycle (idempotent thereafter), so callers know
// whether to recurse into children.
func (t *Table) Mark(index uint32) bool {
	if index == 0 || index >= uint32(len(t.slots)) {
		return false
	}
	return t.slots[index].mark.CompareAndSwap(false, true)
}

// MarkTraversal sets index's traversal mark (the single-threaded walk bit,
// distinct from the GC reachability bit). Returns true the first time it
// is set, like Mark.
func (t *Table) MarkTraversal(index uint32) bool {
	if index == 0 || index >= uint32(len(t.slots)) {
		return false
	}
	return t.slots[index].traversal.CompareAndSwap(false, true)
}

// ClearTraversalMark clears index's traversal mark, returning whether it
// had been set.
func (t *Table) ClearTraversalMark(index uint32) bool {
	if index == 0 || index >= uint32(len(t.slots)) {
		return false
	}
	return t.slots[index].traversal.CompareAndSwap(true, false)
}

// CountMarked returns the number of slots currently marked reachable.
func (t *Table) CountMarked() int {
	n := 0
	next := t.next.Load()
	for i := uint32(1); i < next; i++ {
		if t.slots[i].used.Load() && t.slots[i].mark.Load() {
			n++
		}
	}
	return n
}

// Size returns the number of live (used) nodes in the table.
func (t *Table) Size() int {
	n := 0
	next := t.next.Load()
	for i := uint32(1); i < next; i++ {
		if t.slots[i].used.Load() {
			n++
		}
	}
	return n
}

// Capacity returns the table's fixed maximum node count.
func (t *Table) Capacity() int { return int(t.capacity) }

// Sweep reclaims every unmarked slot and clears the mark bit on every
// survivor. It must run only while no other goroutine is concurrently
// calling Lookup (the GC stop-the-world barrier in mtbdd/gc guarantees
// this).
func (t *Table) Sweep() (reclaimed int) {
	for sIdx := range t.shards {
		sh := &t.shards[sIdx]
		sh.mu.Lock()
		for c, idx := range sh.idx {
			s := &t.slots[idx]
			if s.mark.Load() {
				s.mark.Store(false)
				continue
			}
			delete(sh.idx, c)
			s.used.Store(false)
			reclaimed++
			t.freeMu.Lock()
			t.freeList = append(t.freeList, idx)
			t.freeMu.Unlock()
		}
		sh.mu.Unlock()
	}
	return reclaimed
}
