package alloc

import (
	"fmt"
	"unsafe"

	"github.com/robin-raymond/zaxrt/internal/layout"
	"github.com/robin-raymond/zaxrt/internal/trace"
)

const (
	// DefaultSlabSize is the size of each anonymous mapping chunks are
	// carved from.
	DefaultSlabSize = 1 << 24 // 16MB

	// DefaultChunkSize is the bump-allocation unit. Requests that cannot
	// fit in a chunk get a dedicated mapping.
	DefaultChunkSize = 1 << 18 // 256KB

	// headerSize is the region header in front of every returned pointer:
	// word 0 holds the requested size, word 1 packs the owning chunk index
	// (low 32 bits) and the padding between the allocation start and the
	// header (high 32 bits).
	headerSize = 2 * layout.WordSize
)

// chunk is one bump-allocation unit. live counts bytes handed out, headers
// and padding included; when it returns to zero the chunk is recycled.
type chunk struct {
	base uintptr
	off  uintptr // bump offset of the next allocation
	live uintptr
	cap  uintptr
	mem  []byte // non-nil for dedicated mappings, unmapped on free
}

// Arena is the default single-threaded allocation strategy. It is not safe
// for concurrent use; wrap it in Shared when multiple goroutines allocate.
type Arena struct {
	slabSize  uintptr
	chunkSize uintptr
	maxBytes  uintptr // 0 = unbounded

	slab     []byte // unparceled remainder of the newest slab
	slabs    [][]byte
	chunks   []chunk
	cur      int // chunk currently being bumped, -1 if none
	free     []int
	released bool
	stats    Stats
}

// NewArena creates an arena with default tuning.
func NewArena() *Arena {
	return NewArenaProfile(Profile{})
}

// NewArenaProfile creates an arena tuned by prof. Zero fields fall back to
// defaults; see Profile.
func NewArenaProfile(prof Profile) *Arena {
	prof = prof.withDefaults()
	return &Arena{
		slabSize:  uintptr(prof.SlabSize),
		chunkSize: uintptr(prof.ChunkSize),
		maxBytes:  uintptr(prof.MaxBytes),
		cur:       -1,
	}
}

// Alloc returns a region of at least size bytes aligned to align.
func (a *Arena) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	if a.released {
		return nil, ErrReleased
	}
	if size == 0 {
		return nil, ErrBadSize
	}
	if align == 0 {
		align = layout.MinAlign
	}
	if !layout.IsPow2(align) {
		return nil, ErrBadAlign
	}
	if align < layout.MinAlign {
		align = layout.MinAlign
	}

	// Worst-case bytes a fresh chunk would need for this request.
	worst := headerSize + align - 1 + layout.Align8(size)
	if worst > a.chunkSize {
		return a.allocLarge(size, align)
	}

	if a.cur < 0 {
		if err := a.nextChunk(); err != nil {
			return nil, err
		}
	}
	c := &a.chunks[a.cur]
	start := c.base + c.off
	ptr := layout.AlignUp(start+headerSize, align)
	total := ptr + layout.Align8(size) - start
	if c.off+total > c.cap {
		if err := a.nextChunk(); err != nil {
			return nil, err
		}
		c = &a.chunks[a.cur]
		start = c.base // fresh chunk, off == 0
		ptr = layout.AlignUp(start+headerSize, align)
		total = ptr + layout.Align8(size) - start
	}
	if a.maxBytes > 0 && uintptr(a.stats.InUse)+total > a.maxBytes {
		return nil, ErrOutOfMemory
	}

	hdr := ptr - headerSize
	pad := hdr - start
	*(*uintptr)(unsafe.Pointer(hdr)) = size
	*(*uintptr)(unsafe.Pointer(hdr + layout.WordSize)) = uintptr(a.cur) | pad<<32

	c.off += total
	c.live += total
	a.commitStats(total)
	trace.Alloc(ptr, size)
	return unsafe.Pointer(ptr), nil
}

// allocLarge serves a request too big for a chunk with a dedicated mapping.
func (a *Arena) allocLarge(size, align uintptr) (unsafe.Pointer, error) {
	need := headerSize + align - 1 + layout.Align8(size)
	if a.maxBytes > 0 && uintptr(a.stats.InUse)+need > a.maxBytes {
		return nil, ErrOutOfMemory
	}
	mem, err := mapSlab(need)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	base := uintptr(unsafe.Pointer(&mem[0]))
	a.chunks = append(a.chunks, chunk{base: base, off: need, live: need, cap: need, mem: mem})
	idx := len(a.chunks) - 1

	ptr := layout.AlignUp(base+headerSize, align)
	hdr := ptr - headerSize
	*(*uintptr)(unsafe.Pointer(hdr)) = size
	*(*uintptr)(unsafe.Pointer(hdr + layout.WordSize)) = uintptr(idx) | (hdr-base)<<32

	a.stats.Chunks++
	a.stats.LargeAllocs++
	a.commitStats(need)
	trace.Alloc(ptr, size)
	return unsafe.Pointer(ptr), nil
}

func (a *Arena) commitStats(total uintptr) {
	a.stats.AllocCalls++
	a.stats.InUse += int64(total)
	if a.stats.InUse > a.stats.Peak {
		a.stats.Peak = a.stats.InUse
	}
}

// nextChunk makes some chunk current: a fully-freed one if available,
// otherwise a fresh carve from the slab.
func (a *Arena) nextChunk() error {
	// Reclaim the outgoing chunk if everything in it was freed while it
	// was current; Dealloc skips the current chunk.
	if a.cur >= 0 {
		c := &a.chunks[a.cur]
		if c.live == 0 && c.off != 0 {
			c.off = 0
			a.free = append(a.free, a.cur)
		}
	}
	if n := len(a.free); n > 0 {
		a.cur = a.free[n-1]
		a.free = a.free[:n-1]
		a.chunks[a.cur].off = 0
		return nil
	}
	if uintptr(len(a.slab)) < a.chunkSize {
		s, err := mapSlab(a.slabSize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOutOfMemory, err)
		}
		a.slabs = append(a.slabs, s)
		a.slab = s
		a.stats.Slabs++
	}
	base := uintptr(unsafe.Pointer(&a.slab[0]))
	a.slab = a.slab[a.chunkSize:]
	a.chunks = append(a.chunks, chunk{base: base, cap: a.chunkSize})
	a.cur = len(a.chunks) - 1
	a.stats.Chunks++
	return nil
}

// Dealloc returns p's region to the arena. p must have been produced by
// this arena; anything else is undefined behavior.
func (a *Arena) Dealloc(p unsafe.Pointer) {
	up := uintptr(p)
	hdr := up - headerSize
	size := *(*uintptr)(unsafe.Pointer(hdr))
	word := *(*uintptr)(unsafe.Pointer(hdr + layout.WordSize))
	idx := int(word & 0xffffffff)
	pad := word >> 32

	c := &a.chunks[idx]
	if c.mem != nil {
		a.stats.InUse -= int64(c.cap)
		_ = unmapSlab(c.mem)
		*c = chunk{}
	} else {
		total := pad + headerSize + layout.Align8(size)
		c.live -= total
		a.stats.InUse -= int64(total)
		if c.live == 0 && idx != a.cur {
			c.off = 0
			a.free = append(a.free, idx)
		}
	}
	a.stats.DeallocCalls++
	trace.Free(up)
}

// Usable reports the size p's region was allocated with.
func (a *Arena) Usable(p unsafe.Pointer) uintptr {
	return *(*uintptr)(unsafe.Pointer(uintptr(p) - headerSize))
}

// Stats returns a snapshot of the arena's counters.
func (a *Arena) Stats() Stats {
	return a.stats
}

// Release unmaps every slab and dedicated mapping. All regions handed out by
// the arena become invalid; further Alloc calls fail with ErrReleased.
func (a *Arena) Release() {
	for i := range a.chunks {
		if a.chunks[i].mem != nil {
			_ = unmapSlab(a.chunks[i].mem)
			a.chunks[i] = chunk{}
		}
	}
	for _, s := range a.slabs {
		_ = unmapSlab(s)
	}
	a.slab = nil
	a.slabs = nil
	a.chunks = nil
	a.free = nil
	a.cur = -1
	a.released = true
}
