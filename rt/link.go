package rt

import "unsafe"

// Lifetime linking binds a raw pointer to an existing co-owner's control
// block, so a sub-object (a field, an element of an embedded array) can keep
// its containing allocation alive on its own.

// Link binds p to owner's control block after verifying p lies inside the
// allocation's value storage. On success the result is a new co-owner of the
// same discipline sharing owner's block; on a pointer outside the bounds the
// result is empty.
func Link[T, U any](owner Handle[T], p *U) (Handle[U], bool) {
	if owner.cb == nil || p == nil {
		return Handle[U]{}, false
	}
	if !owner.cb.contains(unsafe.Pointer(p), unsafe.Sizeof(*p)) {
		return Handle[U]{}, false
	}
	owner.cb.retainPrimary(plainCount)
	return Handle[U]{v: p, cb: owner.cb}, true
}

// LinkUnchecked binds p to owner's control block with no bounds check.
// Binding a pointer unrelated to owner's allocation is undefined behavior.
func LinkUnchecked[T, U any](owner Handle[T], p *U) Handle[U] {
	if owner.cb == nil {
		return Handle[U]{}
	}
	owner.cb.retainPrimary(plainCount)
	return Handle[U]{v: p, cb: owner.cb}
}

// LinkAtomic is Link for the atomic pair.
func LinkAtomic[T, U any](owner Strong[T], p *U) (Strong[U], bool) {
	if owner.cb == nil || p == nil {
		return Strong[U]{}, false
	}
	if !owner.cb.contains(unsafe.Pointer(p), unsafe.Sizeof(*p)) {
		return Strong[U]{}, false
	}
	owner.cb.retainPrimary(atomicCount)
	return Strong[U]{v: p, cb: owner.cb}, true
}

// LinkAtomicUnchecked is LinkUnchecked for the atomic pair.
func LinkAtomicUnchecked[T, U any](owner Strong[T], p *U) Strong[U] {
	if owner.cb == nil {
		return Strong[U]{}
	}
	owner.cb.retainPrimary(atomicCount)
	return Strong[U]{v: p, cb: owner.cb}
}
