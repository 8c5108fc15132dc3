package layout

// Alignment utilities. Region starts and value offsets must be aligned for
// the most-aligned thing placed there; alignments are always powers of two.

// AlignUp returns n aligned up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 8)  = 16
func AlignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// Align8 returns n aligned up to the next 8-byte boundary.
func Align8(n uintptr) uintptr {
	return AlignUp(n, 8)
}

// IsPow2 reports whether a is a non-zero power of two.
func IsPow2(a uintptr) bool {
	return a != 0 && a&(a-1) == 0
}
