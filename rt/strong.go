package rt

import "github.com/robin-raymond/zaxrt/rt/alloc"

// Strong is the thread-safe co-owning pointer. It mirrors Handle exactly,
// but every counter mutation is an atomic read-modify-write, so Strongs and
// Weaks of one allocation may be cloned, reset, and upgraded from any
// goroutine without external synchronization. Only the bookkeeping is
// synchronized: concurrent mutation of the pointed-to value remains the
// caller's problem.
type Strong[T any] struct {
	v  *T
	cb *control
}

// NewAtomic allocates v from a and returns the first co-owning Strong
// (primary count 1). The block commits to the atomic counting discipline.
func NewAtomic[T any](a alloc.Allocator, v T) (Strong[T], error) {
	cb, vp, err := place(a, v)
	if err != nil {
		return Strong[T]{}, err
	}
	cb.strong = 1
	cb.weak = 1 // implicit reference held by the co-owners collectively
	return Strong[T]{v: vp, cb: cb}, nil
}

// Get returns the wrapped value, or nil for an empty pointer.
func (s Strong[T]) Get() *T {
	return s.v
}

// Empty reports whether the pointer owns nothing.
func (s Strong[T]) Empty() bool {
	return s.cb == nil
}

// Count returns the primary-owner count at the moment of the load. Under
// concurrent traffic it is only a snapshot.
func (s Strong[T]) Count() uintptr {
	if s.cb == nil {
		return 0
	}
	return s.cb.primary(atomicCount)
}

// Clone adds a co-owner sharing the same control block.
func (s Strong[T]) Clone() Strong[T] {
	if s.cb == nil {
		return Strong[T]{}
	}
	s.cb.retainPrimary(atomicCount)
	return s
}

// Reset drops this co-owner and empties the pointer. The thread that sees
// the count hit zero runs the destructor, with visibility of all writes made
// by every thread that held a reference.
func (s *Strong[T]) Reset() {
	if s.cb == nil {
		return
	}
	s.cb.releasePrimary(atomicCount)
	*s = Strong[T]{}
}

// Observe returns a Weak watching this allocation without keeping it alive.
func (s Strong[T]) Observe() Weak[T] {
	if s.cb == nil {
		return Weak[T]{}
	}
	s.cb.retainObserver(atomicCount)
	return Weak[T]{v: s.v, cb: s.cb}
}

// DuplicateAtomic makes a fully independent deep copy of s's value in a
// fresh allocation from a. The copy shares nothing with the original, which
// makes it safe to hand to another thread even when the original stays busy.
func DuplicateAtomic[T any](a alloc.Allocator, s Strong[T]) (Strong[T], error) {
	if s.cb == nil {
		return Strong[T]{}, nil
	}
	return NewAtomic(a, *s.v)
}

// Weak observes an allocation owned by Strongs. It never extends the
// value's lifetime; it can only try to re-acquire one.
type Weak[T any] struct {
	v  *T
	cb *control
}

// Empty reports whether the weak pointer observes nothing.
func (w Weak[T]) Empty() bool {
	return w.cb == nil
}

// Clone adds another observer of the same allocation.
func (w Weak[T]) Clone() Weak[T] {
	if w.cb == nil {
		return Weak[T]{}
	}
	w.cb.retainObserver(atomicCount)
	return w
}

// Upgrade attempts to mint a new co-owning Strong via a compare-and-swap
// loop. It fails with an empty result once the last co-owner has released
// (or an Own holds the value exclusively), and is safe against concurrent
// releases racing the upgrade.
func (w Weak[T]) Upgrade() (Strong[T], bool) {
	if w.cb == nil || !w.cb.upgrade(atomicCount) {
		return Strong[T]{}, false
	}
	return Strong[T]{v: w.v, cb: w.cb}, true
}

// Reset drops the observer reference and empties the weak pointer.
func (w *Weak[T]) Reset() {
	if w.cb == nil {
		return
	}
	w.cb.releaseObserver(atomicCount)
	*w = Weak[T]{}
}
