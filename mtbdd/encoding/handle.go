// Package encoding implements the on-the-wire layout of MTBDD handles and
// nodes (spec components A and C): the 64-bit tagged handle, and the packed
// 16-byte node representation with complement-edge normalization. It has no
// knowledge of storage or reference counting — those live in unique, refs,
// worker and gc, which build on this package.
package encoding

// MTBDD is the 64-bit opaque handle type. Bits 0-39 hold a 40-bit index
// into the canonical table; bit 63 is the complement flag.
type MTBDD uint64

const (
	// IndexBits is the width of the table-index field.
	IndexBits = 40
	// IndexMask isolates the index field of a handle or an internal
	// node's child fields.
	IndexMask = uint64(1)<<IndexBits - 1

	// Complement is the sign/negation bit, bit 63.
	Complement = uint64(1) << 63

	// internalFlag is bit 62 of the node's `a` word: 0 means internal, 1
	// means leaf.
	internalFlag = uint64(1) << 62

	varShift = 40
	varMask  = uint64(1)<<24 - 1
)

const (
	// False is the sentinel for the constant-false diagram. Never stored
	// in the table.
	False MTBDD = 0
	// True is the sentinel for the constant-true diagram: the complement
	// of False.
	True MTBDD = MTBDD(Complement)
)

// HasMark reports whether h's complement bit is set.
func (h MTBDD) HasMark() bool { return uint64(h)&Complement != 0 }

// StripMark clears the complement bit.
func (h MTBDD) StripMark() MTBDD { return MTBDD(uint64(h) &^ Complement) }

// ToggleMark flips the complement bit.
func (h MTBDD) ToggleMark() MTBDD { return MTBDD(uint64(h) ^ Complement) }

// TransferMark XORs src's complement bit onto dst, used when dereferencing a
// child to pass the parent's negation down to the result.
func TransferMark(src, dst MTBDD) MTBDD {
	return MTBDD(uint64(dst) ^ (uint64(src) & Complement))
}

// Index returns the 40-bit table index encoded in h, ignoring the
// complement bit. Meaningless for the True/False sentinels.
func (h MTBDD) Index() uint32 { return uint32(uint64(h) & IndexMask) }

// WithIndex returns the handle for the given table index, carrying h's
// complement bit.
func (h MTBDD) WithIndex(index uint32) MTBDD {
	return MTBDD(uint64(h)&Complement | uint64(index)&IndexMask)
}

// FromIndex builds an uncomplemented handle for a table index.
func FromIndex(index uint32) MTBDD { return MTBDD(uint64(index) & IndexMask) }
