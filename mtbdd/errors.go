package mtbdd

import "github.com/pkg/errors"

// Recoverable construction errors (spec §7). Both are returned alongside
// MTBDD.False; callers must not treat False-with-error the same as a
// legitimately-constructed False diagram.
var (
	// ErrInvalidCubeByte is returned when a cube pattern byte is outside
	// {0,1,2,3}.
	ErrInvalidCubeByte = errors.New("mtbdd: invalid cube pattern byte")

	// ErrUnsupportedCubePattern is returned by UnionCube for pattern
	// byte 3 (interleaved equality), which spec §9 documents as a known
	// gap in the source this engine is modeled on. This module resolves
	// the open question by surfacing an explicit error instead of
	// silently returning False (see SPEC_FULL.md's REDESIGN FLAGS).
	ErrUnsupportedCubePattern = errors.New("mtbdd: union_cube does not support interleaved-equality pattern (3)")
)
