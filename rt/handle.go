package rt

import "github.com/robin-raymond/zaxrt/rt/alloc"

// Handle is the single-threaded co-owning pointer. Copies share one control
// block and keep the value alive; counts use plain arithmetic, so every
// Handle and Hint of an allocation must stay confined to one goroutine. For
// cross-thread sharing use Strong, or Duplicate the value across the
// boundary.
type Handle[T any] struct {
	v  *T
	cb *control
}

// New allocates v from a and returns the first co-owning Handle
// (primary count 1). The block commits to the plain counting discipline.
func New[T any](a alloc.Allocator, v T) (Handle[T], error) {
	cb, vp, err := place(a, v)
	if err != nil {
		return Handle[T]{}, err
	}
	cb.strong = 1
	cb.weak = 1 // implicit reference held by the co-owners collectively
	return Handle[T]{v: vp, cb: cb}, nil
}

// Get returns the wrapped value, or nil for an empty handle.
func (h Handle[T]) Get() *T {
	return h.v
}

// Empty reports whether the handle owns nothing.
func (h Handle[T]) Empty() bool {
	return h.cb == nil
}

// Count returns the current primary-owner count, 0 for an empty handle.
func (h Handle[T]) Count() uintptr {
	if h.cb == nil {
		return 0
	}
	return h.cb.primary(plainCount)
}

// Clone adds a co-owner sharing the same control block.
func (h Handle[T]) Clone() Handle[T] {
	if h.cb == nil {
		return Handle[T]{}
	}
	h.cb.retainPrimary(plainCount)
	return h
}

// Reset drops this co-owner and empties the handle. The destructor runs if
// this was the last one.
func (h *Handle[T]) Reset() {
	if h.cb == nil {
		return
	}
	h.cb.releasePrimary(plainCount)
	*h = Handle[T]{}
}

// Observe returns a Hint watching this allocation without keeping it alive.
func (h Handle[T]) Observe() Hint[T] {
	if h.cb == nil {
		return Hint[T]{}
	}
	h.cb.retainObserver(plainCount)
	return Hint[T]{v: h.v, cb: h.cb}
}

// Duplicate makes a fully independent deep copy of h's value in a fresh
// allocation from a. An empty handle duplicates to an empty handle. This is
// the sanctioned way to move a value across a thread boundary without
// sharing state.
func Duplicate[T any](a alloc.Allocator, h Handle[T]) (Handle[T], error) {
	if h.cb == nil {
		return Handle[T]{}, nil
	}
	return New(a, *h.v)
}

// Hint observes an allocation owned by Handles. It never extends the
// value's lifetime; it can only try to re-acquire one.
type Hint[T any] struct {
	v  *T
	cb *control
}

// Empty reports whether the hint observes nothing.
func (o Hint[T]) Empty() bool {
	return o.cb == nil
}

// Clone adds another observer of the same allocation.
func (o Hint[T]) Clone() Hint[T] {
	if o.cb == nil {
		return Hint[T]{}
	}
	o.cb.retainObserver(plainCount)
	return o
}

// Upgrade attempts to mint a new co-owning Handle. It fails with an empty
// result once the last co-owner has released (or an Own holds the value
// exclusively).
func (o Hint[T]) Upgrade() (Handle[T], bool) {
	if o.cb == nil || !o.cb.upgrade(plainCount) {
		return Handle[T]{}, false
	}
	return Handle[T]{v: o.v, cb: o.cb}, true
}

// Reset drops the observer reference and empties the hint.
func (o *Hint[T]) Reset() {
	if o.cb == nil {
		return
	}
	o.cb.releaseObserver(plainCount)
	*o = Hint[T]{}
}
