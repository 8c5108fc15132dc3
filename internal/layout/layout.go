// Package layout fixes the binary layout shared by the whole module: the
// control-block field offsets, the arena region header, and the alignment
// rules. Generated code and the runtime must agree on these constants
// bit-exactly, so they live in one place and are asserted by tests against
// the live struct definitions.
package layout

// WordSize is the machine word size in bytes. The runtime assumes a 64-bit
// target; every control-block field is one word.
const WordSize = 8

// Control-block field offsets, in bytes from the start of the block.
// The block is the first thing in an allocated region; the wrapped value
// follows at ValueOffset for its alignment.
const (
	// StrongOffset is the primary-owner count.
	StrongOffset = 0

	// WeakOffset is the observer count. The count carries one implicit
	// reference owned by the primary-ownership domain; the region is
	// released when it reaches zero.
	WeakOffset = 8

	// MemOffset is the id of the allocator that produced the region.
	MemOffset = 16

	// DtorOffset is the id of the type-erased destructor, 0 for none.
	DtorOffset = 24

	// OuterOffset is the identity tag for outer-casting, 0 unless the
	// wrapped type registered containments.
	OuterOffset = 32

	// ControlSize is the total size of the control block.
	ControlSize = 40
)

// MinAlign is the minimum alignment of any region handed out by an
// allocator. It matches the alignment of the control block itself.
const MinAlign = 8

// ValueOffset returns the offset of the wrapped value inside a region whose
// control block starts at offset 0, for a value of the given alignment.
func ValueOffset(align uintptr) uintptr {
	if align < MinAlign {
		align = MinAlign
	}
	return AlignUp(ControlSize, align)
}
