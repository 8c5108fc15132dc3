package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the allocator could not produce a region:
	// either the configured byte budget is exhausted or the operating
	// system refused a mapping.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrBadAlign indicates a requested alignment that is not a power of
	// two.
	ErrBadAlign = errors.New("alloc: alignment must be a power of two")

	// ErrBadSize indicates a zero or negative-sized allocation request.
	ErrBadSize = errors.New("alloc: size must be positive")

	// ErrReleased indicates use of an arena after Release.
	ErrReleased = errors.New("alloc: arena released")
)
