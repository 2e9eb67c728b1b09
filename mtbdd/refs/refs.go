// Package refs implements the external rooting stores (spec component E):
// a counted-refs multiset and a protected-address set. Both are
// concurrent-safe and independent of each other; each engine creates its
// own RefTable, while the protected-address set has one process-wide
// default (Default). Locking
// follows the teacher's cache package idiom — a single mutex guarding a
// plain Go map — rather than sync.Map, since Iter (used once per GC cycle,
// not per-hot-path) needs a stable, lockable snapshot more than it needs
// lock-free reads.
package refs

import (
	"sync"

	"github.com/colibri-dd/mtbdd/encoding"
)

// RefTable is a concurrent multiset of handles: Ref increments a handle's
// hold count, Deref decrements it, and a handle with count > 0 must survive
// GC. Ref/Deref are no-ops on the True/False sentinels, which are never
// collected.
type RefTable struct {
	mu     sync.Mutex
	counts map[encoding.MTBDD]int64
}

// NewRefTable creates an empty counted-refs store.
func NewRefTable() *RefTable {
	return &RefTable{counts: make(map[encoding.MTBDD]int64)}
}

// Ref increments h's hold count.
func (r *RefTable) Ref(h encoding.MTBDD) {
	if isSentinel(h) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[h]++
}

// Deref decrements h's hold count, removing the entry once it reaches zero.
func (r *RefTable) Deref(h encoding.MTBDD) {
	if isSentinel(h) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.counts[h]; ok {
		if n <= 1 {
			delete(r.counts, h)
		} else {
			r.counts[h] = n - 1
		}
	}
}

// Count returns the number of distinct handles currently held.
func (r *RefTable) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counts)
}

// Iter calls fn once for every currently-held handle. fn must not call back
// into RefTable.
func (r *RefTable) Iter(fn func(encoding.MTBDD)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h := range r.counts {
		fn(h)
	}
}

func isSentinel(h encoding.MTBDD) bool {
	return h == encoding.False || h == encoding.True
}

// ProtectTable is a concurrent set of addresses of handle-sized cells. At GC
// time the collector dereferences each address to find the live handle,
// which lets external holders reassign their variable without
// re-registering on every write. The design notes require this store to be
// usable before mtbdd.Init runs (host-language global constructors may
// register protections early), so it is created lazily on first use via
// Default, not by an explicit init step.
type ProtectTable struct {
	mu   sync.Mutex
	addr map[*encoding.MTBDD]struct{}
}

// NewProtectTable creates an empty protections store.
func NewProtectTable() *ProtectTable {
	return &ProtectTable{addr: make(map[*encoding.MTBDD]struct{})}
}

// Protect registers addr as a GC root; its current and all future values
// are kept alive until Unprotect is called.
func (p *ProtectTable) Protect(addr *encoding.MTBDD) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addr[addr] = struct{}{}
}

// Unprotect removes addr from the root set.
func (p *ProtectTable) Unprotect(addr *encoding.MTBDD) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.addr, addr)
}

// Count returns the number of currently-protected addresses.
func (p *ProtectTable) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.addr)
}

// Iter calls fn with the live handle at every protected address.
func (p *ProtectTable) Iter(fn func(encoding.MTBDD)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr := range p.addr {
		fn(*addr)
	}
}

var (
	defaultOnce    sync.Once
	defaultProtect *ProtectTable
)

// Default returns the process-wide ProtectTable, creating it on first call.
// Because it is a package-level lazy singleton rather than something
// mtbdd.Init constructs, a host program may call Default().Protect before
// Init runs; Init (see mtbdd.Init) simply reuses it instead of replacing
// it.
func Default() *ProtectTable {
	defaultOnce.Do(func() {
		defaultProtect = NewProtectTable()
	})
	return defaultProtect
}
