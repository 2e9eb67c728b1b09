package mtbdd

import "sync/atomic"

// gcPending lets an external caller (e.g. a monitoring goroutine watching
// table occupancy) request that the next gcTest() polling point inside an
// operator trigger a collection proactively, rather than waiting for a
// make_* call to fail outright. Spec §5 names gc_test as a suspension
// point operators must poll near entry to cooperate with stop-the-world
// GC; spec §4.3's GC-on-full retry remains the primary trigger.
var gcPending atomic.Bool

// RequestGC asks the next gcTest() call to run a collection cycle.
func RequestGC() { gcPending.Store(true) }

// gcTest is the cooperative polling point spec §4.6/§5 requires every
// recursive operator to call near entry.
func gcTest() {
	if gcPending.CompareAndSwap(true, false) {
		engine().gc.Collect()
	}
}
