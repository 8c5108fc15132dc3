package rt

import (
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/robin-raymond/zaxrt/internal/layout"
	"github.com/robin-raymond/zaxrt/internal/trace"
	"github.com/robin-raymond/zaxrt/rt/alloc"
)

// control is the reference-count record at the head of every allocated
// region; the wrapped value follows at layout.ValueOffset for its alignment.
// Every field is a plain machine word so the block can live in arena memory
// the garbage collector never sees. Field offsets are fixed module-wide in
// internal/layout and asserted by test.
//
// weak carries one implicit reference owned by the primary-ownership domain:
// all co-owners collectively while strong > 0, or the detached Own after an
// exclusive take. The region is returned to its allocator when weak reaches
// zero.
type control struct {
	strong uintptr
	weak   uintptr
	mem    uintptr // allocator id, see allocators table
	dtor   uintptr // destructor id, 0 for none
	outer  uintptr // container identity tag, 0 unless registered
}

// discipline selects the counting strategy a block committed to at
// allocation. The two disciplines are never interchangeable for one block;
// the static handle kind carries the discipline, so it is not stored in the
// block itself.
type discipline uint8

const (
	plainCount  discipline = iota // single-thread arithmetic
	atomicCount                   // atomic read-modify-write, any thread
)

func (d discipline) String() string {
	if d == atomicCount {
		return "atomic"
	}
	return "plain"
}

// addStrong adjusts the primary count by delta and returns the new value.
func (c *control) addStrong(d discipline, delta uintptr) uintptr {
	if d == atomicCount {
		return atomic.AddUintptr(&c.strong, delta)
	}
	c.strong += delta
	return c.strong
}

// addWeak adjusts the observer count by delta and returns the new value.
func (c *control) addWeak(d discipline, delta uintptr) uintptr {
	if d == atomicCount {
		return atomic.AddUintptr(&c.weak, delta)
	}
	c.weak += delta
	return c.weak
}

// primary reads the primary count.
func (c *control) primary(d discipline) uintptr {
	if d == atomicCount {
		return atomic.LoadUintptr(&c.strong)
	}
	return c.strong
}

func (c *control) addr() uintptr {
	return uintptr(unsafe.Pointer(c))
}

// retainPrimary adds a co-owner. Callers guarantee the block is live.
func (c *control) retainPrimary(d discipline) {
	n := c.addStrong(d, 1)
	trace.Retain(c.addr(), "primary", n)
}

// releasePrimary drops a co-owner. On the 1→0 transition the wrapped
// value's destructor runs exactly once and the implicit observer reference
// is dropped, which frees the region if no observers remain.
func (c *control) releasePrimary(d discipline) {
	n := c.addStrong(d, ^uintptr(0))
	trace.Release(c.addr(), "primary", n)
	if n == 0 {
		c.destruct()
		c.releaseObserver(d)
	}
}

// retainObserver adds an observer.
func (c *control) retainObserver(d discipline) {
	n := c.addWeak(d, 1)
	trace.Retain(c.addr(), "observer", n)
}

// releaseObserver drops an observer reference (explicit or implicit). The
// last one out returns the whole region to the recorded allocator.
func (c *control) releaseObserver(d discipline) {
	n := c.addWeak(d, ^uintptr(0))
	trace.Release(c.addr(), "observer", n)
	if n == 0 {
		allocatorByID(c.mem).Dealloc(unsafe.Pointer(c))
	}
}

// upgrade attempts to mint a new primary reference, succeeding only while
// the value is still live.
func (c *control) upgrade(d discipline) bool {
	if d == plainCount {
		if c.strong == 0 {
			return false
		}
		c.strong++
		return true
	}
	for {
		n := atomic.LoadUintptr(&c.strong)
		if n == 0 {
			return false
		}
		if atomic.CompareAndSwapUintptr(&c.strong, n, n+1) {
			return true
		}
	}
}

// take detaches exclusive ownership: primary count moves 1→0 without
// destructing. Fails unless the caller was the sole primary owner at the
// moment of the swap. After a successful take observers can no longer
// upgrade.
func (c *control) take(d discipline) bool {
	if d == plainCount {
		if c.strong != 1 {
			return false
		}
		c.strong = 0
		return true
	}
	return atomic.CompareAndSwapUintptr(&c.strong, 1, 0)
}

// restore ends an exclusive tenure, converting it back into count == 1
// shared ownership. Only the detached Own may call this; no other primary
// mutation can race with it because strong is pinned at 0.
func (c *control) restore(d discipline) {
	if d == plainCount {
		c.strong = 1
		return
	}
	atomic.StoreUintptr(&c.strong, 1)
}

// value returns the wrapped value's storage. Go alignments never exceed
// MinAlign, so the value sits directly behind the control block; handles to
// linked sub-objects do not move it.
func (c *control) value() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(c), layout.ControlSize)
}

// destruct runs the registered destructor for the wrapped value, if any.
// The destructor always receives the region's value base, regardless of
// which handle triggered the release.
func (c *control) destruct() {
	trace.Destruct(c.addr())
	if fn := destructorByID(c.dtor); fn != nil {
		fn(c.value())
	}
}

// ---- Allocation ----

// place carves a region for one value of type T from a: control block at
// offset 0, value at its alignment-determined offset. The block's counts are
// left zero for the caller to initialize.
func place[T any](a alloc.Allocator, v T) (*control, *T, error) {
	if a == nil {
		return nil, nil, ErrNilAllocator
	}
	align := unsafe.Alignof(v)
	off := layout.ValueOffset(align)
	size := off + unsafe.Sizeof(v)
	p, err := a.Alloc(size, max(align, layout.MinAlign))
	if err != nil {
		return nil, nil, err
	}
	cb := (*control)(p)
	*cb = control{
		mem:   allocatorID(a),
		dtor:  destructorID[T](),
		outer: containerID(reflect.TypeOf((*T)(nil)).Elem()),
	}
	vp := (*T)(unsafe.Add(p, off))
	*vp = v
	return cb, vp, nil
}

// valueBase returns the address a value of type T occupies inside cb's
// region.
func valueBase[T any](cb *control) *T {
	off := layout.ValueOffset(unsafe.Alignof(*new(T)))
	return (*T)(unsafe.Add(unsafe.Pointer(cb), off))
}

// contains reports whether [p, p+n) lies inside the value storage of cb's
// region. Bounds come from the allocator's size header, so linking needs
// nothing beyond the block itself.
func (c *control) contains(p unsafe.Pointer, n uintptr) bool {
	base := c.addr()
	size := allocatorByID(c.mem).Usable(unsafe.Pointer(c))
	q := uintptr(p)
	return q >= base+layout.ControlSize && q+n <= base+size
}

// ---- Allocator routing ----

// Control blocks are pure bits, so they refer to their allocator through a
// small id table instead of an interface value. Ids are handed out on first
// use and live for the process; allocation sites still pass allocators
// explicitly.
var (
	memMu    sync.RWMutex
	memTable = []alloc.Allocator{nil} // id 0 reserved
	memIDs   = map[alloc.Allocator]uintptr{}
)

func allocatorID(a alloc.Allocator) uintptr {
	memMu.RLock()
	id, ok := memIDs[a]
	memMu.RUnlock()
	if ok {
		return id
	}
	memMu.Lock()
	defer memMu.Unlock()
	if id, ok := memIDs[a]; ok {
		return id
	}
	memTable = append(memTable, a)
	id = uintptr(len(memTable) - 1)
	memIDs[a] = id
	return id
}

func allocatorByID(id uintptr) alloc.Allocator {
	memMu.RLock()
	defer memMu.RUnlock()
	return memTable[id]
}

// ---- Destructor registry ----

// Destructors are registered per wrapped type and stored in the block as an
// id word.
var (
	dtorMu    sync.RWMutex
	dtorTable = []func(unsafe.Pointer){nil} // id 0 = no destructor
	dtorIDs   = map[reflect.Type]uintptr{}
)

// RegisterDestructor installs fn as the destructor for values of type T
// allocated afterwards. Registering again for the same type replaces the
// function in place, affecting already-live allocations of T as well.
func RegisterDestructor[T any](fn func(*T)) {
	wrapped := func(p unsafe.Pointer) { fn((*T)(p)) }
	t := reflect.TypeOf((*T)(nil)).Elem()
	dtorMu.Lock()
	defer dtorMu.Unlock()
	if id, ok := dtorIDs[t]; ok {
		dtorTable[id] = wrapped
		return
	}
	dtorTable = append(dtorTable, wrapped)
	dtorIDs[t] = uintptr(len(dtorTable) - 1)
}

func destructorID[T any]() uintptr {
	dtorMu.RLock()
	defer dtorMu.RUnlock()
	return dtorIDs[reflect.TypeOf((*T)(nil)).Elem()]
}

func destructorByID(id uintptr) func(unsafe.Pointer) {
	if id == 0 {
		return nil
	}
	dtorMu.RLock()
	defer dtorMu.RUnlock()
	return dtorTable[id]
}
