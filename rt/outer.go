package rt

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Outer casting navigates from a pointer to a contained sub-object back to
// its containing allocation. A container type opts in by registering its
// containments; allocations of a registered type get the container's
// identity tag stamped into their control block, and the checked cast
// validates against it.

type containment struct {
	inner  reflect.Type
	offset uintptr
}

type containerInfo struct {
	id      uintptr
	ctype   reflect.Type
	entries []containment
}

var (
	outerMu     sync.RWMutex
	outerByType = map[reflect.Type]*containerInfo{}
	outerTable  = []*containerInfo{nil} // id 0 = untagged
)

// RegisterContainment declares that container type C embeds a value of type
// I at the given byte offset (normally unsafe.Offsetof on the field).
// Registering the same containment twice is a no-op; registering the same
// inner type at a second offset fails with ErrAmbiguousContainment, because
// a checked cast could not tell the two sub-objects apart. Ambiguity is
// therefore a registration-time error, never a runtime one.
func RegisterContainment[C, I any](offset uintptr) error {
	ct := reflect.TypeOf((*C)(nil)).Elem()
	it := reflect.TypeOf((*I)(nil)).Elem()
	if offset+it.Size() > ct.Size() {
		return fmt.Errorf("rt: containment %s in %s at offset %d out of range", it, ct, offset)
	}

	outerMu.Lock()
	defer outerMu.Unlock()
	info, ok := outerByType[ct]
	if !ok {
		info = &containerInfo{id: uintptr(len(outerTable)), ctype: ct}
		outerTable = append(outerTable, info)
		outerByType[ct] = info
	}
	for _, e := range info.entries {
		if e.inner == it {
			if e.offset == offset {
				return nil
			}
			return fmt.Errorf("%w: %s in %s at offsets %d and %d",
				ErrAmbiguousContainment, it, ct, e.offset, offset)
		}
	}
	info.entries = append(info.entries, containment{inner: it, offset: offset})
	return nil
}

// MustRegisterContainment is RegisterContainment for init-time use; it
// panics on error.
func MustRegisterContainment[C, I any](offset uintptr) {
	if err := RegisterContainment[C, I](offset); err != nil {
		panic(err)
	}
}

// containerID returns the identity tag for t, 0 if t never registered
// containments.
func containerID(t reflect.Type) uintptr {
	outerMu.RLock()
	defer outerMu.RUnlock()
	if info, ok := outerByType[t]; ok {
		return info.id
	}
	return 0
}

// registeredOffset returns the offset of I inside C, if registered.
func registeredOffset[C, I any]() (uintptr, bool) {
	outerMu.RLock()
	defer outerMu.RUnlock()
	info, ok := outerByType[reflect.TypeOf((*C)(nil)).Elem()]
	if !ok {
		return 0, false
	}
	it := reflect.TypeOf((*I)(nil)).Elem()
	for _, e := range info.entries {
		if e.inner == it {
			return e.offset, true
		}
	}
	return 0, false
}

// outerTarget resolves the checked cast: the block must carry C's identity
// tag, C must have registered a containment of I, and v must sit exactly at
// that offset inside the block's value storage.
func outerTarget[C, I any](v *I, cb *control) (*C, bool) {
	if cb == nil || v == nil || cb.outer == 0 {
		return nil, false
	}
	outerMu.RLock()
	info := outerTable[cb.outer]
	outerMu.RUnlock()
	if info.ctype != reflect.TypeOf((*C)(nil)).Elem() {
		return nil, false
	}
	off, ok := registeredOffset[C, I]()
	if !ok {
		return nil, false
	}
	base := valueBase[C](cb)
	if uintptr(unsafe.Pointer(v)) != uintptr(unsafe.Pointer(base))+off {
		return nil, false
	}
	return base, true
}

// OuterCast converts a co-owner of a contained sub-object into a co-owner
// of its container. The relationship is validated against the control
// block's identity tag; on any mismatch the result is empty.
func OuterCast[C, I any](h Handle[I]) (Handle[C], bool) {
	base, ok := outerTarget[C](h.v, h.cb)
	if !ok {
		return Handle[C]{}, false
	}
	h.cb.retainPrimary(plainCount)
	return Handle[C]{v: base, cb: h.cb}, true
}

// OuterCastAtomic is OuterCast for the atomic pair.
func OuterCastAtomic[C, I any](s Strong[I]) (Strong[C], bool) {
	base, ok := outerTarget[C](s.v, s.cb)
	if !ok {
		return Strong[C]{}, false
	}
	s.cb.retainPrimary(atomicCount)
	return Strong[C]{v: base, cb: s.cb}, true
}

// OuterCastUnchecked applies the registered offset arithmetic with no
// identity-tag or bounds verification. If h does not actually point at the
// registered sub-object of a C, behavior is undefined. It panics only when
// no containment of I in C was ever registered, since then there is no
// offset to apply; that is a programming error, not a runtime condition.
func OuterCastUnchecked[C, I any](h Handle[I]) Handle[C] {
	if h.cb == nil {
		return Handle[C]{}
	}
	v := uncheckedOuter[C](h.v)
	h.cb.retainPrimary(plainCount)
	return Handle[C]{v: v, cb: h.cb}
}

// OuterCastAtomicUnchecked is OuterCastUnchecked for the atomic pair.
func OuterCastAtomicUnchecked[C, I any](s Strong[I]) Strong[C] {
	if s.cb == nil {
		return Strong[C]{}
	}
	v := uncheckedOuter[C](s.v)
	s.cb.retainPrimary(atomicCount)
	return Strong[C]{v: v, cb: s.cb}
}

func uncheckedOuter[C, I any](v *I) *C {
	off, ok := registeredOffset[C, I]()
	if !ok {
		panic(fmt.Sprintf("rt: no containment of %s registered for %s",
			reflect.TypeOf((*I)(nil)).Elem(), reflect.TypeOf((*C)(nil)).Elem()))
	}
	return (*C)(unsafe.Add(unsafe.Pointer(v), -int(off)))
}
