package rt

import "errors"

var (
	// ErrAmbiguousContainment indicates a container type registered the
	// same inner type at a second offset. Outer casts could not
	// disambiguate, so the registration itself is rejected.
	ErrAmbiguousContainment = errors.New("rt: inner type already registered for container")

	// ErrNilAllocator indicates an allocation entry point was called
	// without an allocator. There is no process-wide default.
	ErrNilAllocator = errors.New("rt: nil allocator")
)
