package mtbdd

import (
	"math"

	golog "github.com/ethereum/go-ethereum/log"

	"github.com/colibri-dd/mtbdd/encoding"
	"github.com/colibri-dd/mtbdd/refs"
)

// content looks up the raw (a, b) words for h's table index. ok is false
// for the True/False sentinels (never stored) or a stale/out-of-range
// index.
func content(h MTBDD) (a, b uint64, ok bool) {
	return engine().table.Content(h.StripMark().Index())
}

// lookupOrGC performs the canonical table's GC-on-full retry protocol
// (spec §4.3.1 step 2, §4.3.2 step 3): attempt the lookup; on failure,
// force a collection and retry exactly once; on a second failure the
// table is genuinely exhausted and the process aborts.
func lookupOrGC(a, b uint64) uint32 {
	eng := engine()
	if idx, _ := eng.table.Lookup(a, b); idx != 0 {
		return idx
	}
	eng.gc.Collect()
	idx, _ := eng.table.Lookup(a, b)
	if idx == 0 {
		golog.Crit("mtbdd: canonical table exhausted",
			"marked", eng.table.CountMarked(), "size", eng.table.Size(), "capacity", eng.table.Capacity())
	}
	return idx
}

// MakeLeaf constructs (or finds) the leaf node for (leafType, value),
// spec §4.3.1.
func MakeLeaf(leafType uint32, value uint64) MTBDD {
	a, b := encoding.PackLeaf(leafType, value)
	return encoding.FromIndex(lookupOrGC(a, b))
}

// MakeNode constructs (or finds) the internal node `if var then high else
// low`, applying CANON-1 (redundant-test collapse) and CANON-2
// (complement normalization on the low edge) before consulting the table
// (spec §4.3.2). worker identifies the calling worker, whose in-flight
// stack roots low and high across the possible GC this call may trigger.
func MakeNode(w WorkerID, variable uint32, low, high MTBDD) MTBDD {
	if low == high {
		return low // CANON-1
	}

	mark := false
	if low.HasMark() {
		low = low.StripMark()
		high = high.ToggleMark()
		mark = true
	}

	locals := engine().pool.Locals(int(w))
	locals.Push(low)
	locals.Push(high)
	a, b := encoding.PackInternal(variable, low.Index(), high.Index(), high.HasMark())
	idx := lookupOrGC(a, b)
	locals.Pop(2)

	result := encoding.FromIndex(idx)
	if mark {
		result = result.ToggleMark()
	}
	return result
}

// Uint64 builds the leaf for an unsigned 64-bit terminal value.
func Uint64(value uint64) MTBDD {
	return MakeLeaf(encoding.TypeUint64, value)
}

// Double builds the leaf for a double terminal, folding the sign into the
// edge's complement bit (spec §4.3.3): negative values are stored as
// their absolute value under the double leaf and referenced with a
// complemented handle, so that -x and x share one leaf.
func Double(value float64) MTBDD {
	h := MakeLeaf(encoding.TypeDouble, math.Float64bits(math.Abs(value)))
	if value < 0 {
		h = h.ToggleMark()
	}
	return h
}

// FromArray builds the canonical "variable cube" spine used as the vars
// argument to Cube/UnionCube (spec §6.2): a right-spine diagram of the
// given variables in ascending order, each node's low edge going to
// False and high edge to the next variable (or True at the bottom).
func FromArray(w WorkerID, vars []uint32) MTBDD {
	result := True
	for i := len(vars) - 1; i >= 0; i-- {
		result = MakeNode(w, vars[i], False, result)
	}
	return result
}

// IsLeaf reports whether h is a terminal: the True/False sentinels, or an
// internal-table node tagged as a leaf (spec §4.2).
func IsLeaf(h MTBDD) bool {
	if h == True || h == False {
		return true
	}
	a, _, ok := content(h)
	if !ok {
		return false
	}
	return encoding.IsLeafContent(a)
}

// GetVar returns the variable index of an internal node. Undefined on
// leaves and sentinels.
func GetVar(h MTBDD) uint32 {
	_, b, _ := content(h)
	return encoding.UnpackVar(b)
}

// GetLow returns h's low child, with no mark — canonicity guarantees the
// low edge never carries a complement bit (CANON-2).
func GetLow(h MTBDD) MTBDD {
	_, b, _ := content(h)
	return encoding.FromIndex(encoding.UnpackInternalLow(b))
}

// GetHigh returns h's high child, with the parent's complement bit
// transferred onto it (spec §4.2's transfer_mark).
func GetHigh(h MTBDD) MTBDD {
	a, _, _ := content(h)
	idx, highComplemented := encoding.UnpackInternalHigh(a)
	child := encoding.FromIndex(idx)
	if highComplemented {
		child = child.ToggleMark()
	}
	return encoding.TransferMark(h, child)
}

// GetType returns a leaf's type tag.
func GetType(h MTBDD) uint32 {
	a, b, _ := content(h)
	typ, _ := encoding.UnpackLeaf(a, b)
	return typ
}

// GetValue returns a leaf's raw 64-bit value (the bit pattern, not
// sign-adjusted — see GetDouble for the double-typed accessor).
func GetValue(h MTBDD) uint64 {
	a, b, _ := content(h)
	_, value := encoding.UnpackLeaf(a, b)
	return value
}

// GetDouble returns a double leaf's value with the handle's complement
// bit applied as a sign flip (spec §4.3.3/§8.1 property 5).
func GetDouble(h MTBDD) float64 {
	f := math.Float64frombits(GetValue(h))
	if h.HasMark() {
		f = -f
	}
	return f
}

// Ref registers h as an external GC root (spec §6.2). No-op on sentinels.
func Ref(h MTBDD) { engine().refs.Ref(h) }

// Deref releases a hold previously taken by Ref.
func Deref(h MTBDD) { engine().refs.Deref(h) }

// CountRefs returns the number of distinct handles currently held via Ref.
func CountRefs() int { return engine().refs.Count() }

// Protect registers addr as a GC root whose current and future value is
// kept alive (spec §6.2, §4.4). Safe to call before Init (spec §6.1's
// Design Notes on the lazily-created protections table).
func Protect(addr *MTBDD) { refs.Default().Protect(addr) }

// Unprotect removes addr from the protected set.
func Unprotect(addr *MTBDD) { refs.Default().Unprotect(addr) }

// CountProtected returns the number of currently-protected addresses.
func CountProtected() int { return refs.Default().Count() }
