package alloc

import "unsafe"

// Allocator is the allocation strategy consumed by the pointer runtime.
//
// Implementations:
//   - Arena: single-threaded chunk allocator over anonymous mappings
//   - Shared: mutex-guarded Arena for concurrent callers
//
// Alloc returns a raw, unconstructed region of at least size bytes aligned
// to align, or ErrOutOfMemory. Dealloc accepts only pointers this instance
// produced; anything else is undefined behavior. Usable reports the size the
// region was allocated with, which is the extent of the caller-visible
// bytes at p.
type Allocator interface {
	Alloc(size, align uintptr) (unsafe.Pointer, error)
	Dealloc(p unsafe.Pointer)
	Usable(p unsafe.Pointer) uintptr
}

// Stats holds allocator counters for tests and instrumentation.
type Stats struct {
	AllocCalls   int   // total Alloc() calls that succeeded
	DeallocCalls int   // total Dealloc() calls
	InUse        int64 // bytes currently allocated, headers included
	Peak         int64 // high-water mark of InUse
	Slabs        int   // slab mappings created
	Chunks       int   // chunks carved, dedicated mappings included
	LargeAllocs  int   // requests that needed a dedicated mapping
}
