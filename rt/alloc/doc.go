// Package alloc provides the pluggable allocation strategy behind the
// pointer runtime.
//
// # Overview
//
// Every wrapped value lives in a region obtained from an Allocator. Regions
// are size-prefixed: a 16-byte header in front of the returned pointer
// records the requested size and the owning chunk, so deallocation and
// bounds queries need nothing but the pointer itself.
//
// # Implementations
//
// Arena: the default single-threaded strategy
//
//   - carves fixed-size chunks out of large anonymous mappings (slabs)
//   - bump-allocates inside the current chunk, with per-chunk live
//     accounting so fully-freed chunks are recycled
//   - oversized requests get a dedicated mapping, released when freed
//   - optional byte budget for deterministic out-of-memory behavior
//
// Shared: a mutex-guarded wrapper over Arena, safe for concurrent callers.
// This is the optional thread-safe strategy; everything else about it is
// identical to Arena.
//
// # Usage Example
//
//	a := alloc.NewArena()
//	defer a.Release()
//
//	p, err := a.Alloc(64, 8)
//	if err != nil {
//	    return err
//	}
//	// ... place a value at p ...
//	a.Dealloc(p)
//
// # Tuning
//
// Slab size, chunk size, byte budget, and the shared flag can be loaded from
// a TOML profile:
//
//	prof, err := alloc.LoadProfile("runtime.toml")
//	if err != nil {
//	    return err
//	}
//	a := alloc.NewArenaProfile(prof)
//
// # Contract
//
// Dealloc accepts only pointers produced by the same allocator instance.
// Passing a foreign pointer is undefined behavior, not a checked error.
// Arena is not thread-safe; use Shared (or external synchronization) when
// regions are allocated or freed from more than one goroutine.
//
// Arena memory is invisible to Go's garbage collector. Values placed in it
// must be self-contained: pointers into the Go heap stored inside a managed
// region do not keep their referents alive.
package alloc
