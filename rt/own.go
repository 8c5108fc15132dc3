package rt

import "github.com/robin-raymond/zaxrt/rt/alloc"

// Own is the exclusive owner: at most one non-empty Own refers to a value,
// and transfer is always a destructive move. While an Own holds a value the
// block's primary count is pinned at zero, so observers left over from a
// shared phase cannot upgrade against it.
//
// Go has no move-only types; copying an Own with plain assignment is a
// caller error. Use Move, Adopt, and the transfer functions.
type Own[T any] struct {
	v    *T
	cb   *control
	disc discipline
}

// NewOwn allocates v from a under exclusive ownership. The block commits to
// the plain counting discipline, so a later transfer out produces a Handle.
func NewOwn[T any](a alloc.Allocator, v T) (Own[T], error) {
	return newOwn(a, v, plainCount)
}

// NewOwnAtomic is NewOwn committing to the atomic discipline; a later
// transfer out produces a Strong.
func NewOwnAtomic[T any](a alloc.Allocator, v T) (Own[T], error) {
	return newOwn(a, v, atomicCount)
}

func newOwn[T any](a alloc.Allocator, v T, d discipline) (Own[T], error) {
	cb, vp, err := place(a, v)
	if err != nil {
		return Own[T]{}, err
	}
	cb.strong = 0 // exclusively held: nothing to upgrade against
	cb.weak = 1   // implicit reference, owned by the Own
	return Own[T]{v: vp, cb: cb, disc: d}, nil
}

// Get returns the owned value, or nil for an empty owner.
func (o *Own[T]) Get() *T {
	return o.v
}

// Empty reports whether the owner holds nothing.
func (o *Own[T]) Empty() bool {
	return o.cb == nil
}

// Move transfers ownership out, leaving the receiver empty.
func (o *Own[T]) Move() Own[T] {
	m := *o
	*o = Own[T]{}
	return m
}

// Adopt is move-assignment: the receiver's current value (if any) is
// destroyed first, then src's ownership moves over and src becomes empty.
func (o *Own[T]) Adopt(src *Own[T]) {
	if o == src {
		return
	}
	o.Reset()
	*o = src.Move()
}

// Reset destroys the owned value and empties the owner. The region is
// returned to its allocator unless observers from an earlier shared phase
// still hold it.
func (o *Own[T]) Reset() {
	if o.cb == nil {
		return
	}
	o.cb.destruct()
	o.cb.releaseObserver(o.disc)
	*o = Own[T]{}
}

// ToHandle converts sole ownership into primary count 1 and empties o. It
// fails with an empty result if o is empty or the block committed to the
// atomic discipline.
func ToHandle[T any](o *Own[T]) (Handle[T], bool) {
	if o.cb == nil || o.disc != plainCount {
		return Handle[T]{}, false
	}
	o.cb.restore(plainCount)
	h := Handle[T]{v: o.v, cb: o.cb}
	*o = Own[T]{}
	return h, true
}

// ToStrong converts sole ownership into primary count 1 and empties o. It
// fails with an empty result if o is empty or the block committed to the
// plain discipline.
func ToStrong[T any](o *Own[T]) (Strong[T], bool) {
	if o.cb == nil || o.disc != atomicCount {
		return Strong[T]{}, false
	}
	o.cb.restore(atomicCount)
	s := Strong[T]{v: o.v, cb: o.cb}
	*o = Own[T]{}
	return s, true
}

// TakeOwn retakes exclusive ownership from a co-owning Handle. It succeeds
// only if h is the sole primary owner at the moment of the take; then h is
// emptied and the Own adopts the allocation, address unchanged. On conflict
// (other co-owners exist) the result is empty and h is left untouched —
// exclusivity is a precondition the caller establishes, not one this
// function enforces by force.
func TakeOwn[T any](h *Handle[T]) (Own[T], bool) {
	if h.cb == nil || !h.cb.take(plainCount) {
		return Own[T]{}, false
	}
	o := Own[T]{v: h.v, cb: h.cb, disc: plainCount}
	*h = Handle[T]{}
	return o, true
}

// TakeOwnAtomic retakes exclusive ownership from a Strong. The sole-owner
// check and the detach are one compare-and-swap, so a concurrent Clone or
// Upgrade either lands before the take (and makes it fail) or not at all.
func TakeOwnAtomic[T any](s *Strong[T]) (Own[T], bool) {
	if s.cb == nil || !s.cb.take(atomicCount) {
		return Own[T]{}, false
	}
	o := Own[T]{v: s.v, cb: s.cb, disc: atomicCount}
	*s = Strong[T]{}
	return o, true
}
