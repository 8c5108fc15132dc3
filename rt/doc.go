// Package rt implements the ownership and lifetime runtime: a family of
// smart-pointer kinds over reference-counted control blocks, with no garbage
// collection and no compiler-enforced safety.
//
// # Pointer kinds
//
// Own[T] is the exclusive owner: move-only, never shared.
//
// Handle[T] and its observer Hint[T] are the single-threaded co-owning pair.
// Counts use plain arithmetic; every handle and hint of one allocation must
// stay confined to one goroutine.
//
// Strong[T] and its observer Weak[T] are the thread-safe co-owning pair.
// Counts use atomic read-modify-write operations (Go atomics are
// sequentially consistent, which subsumes the release/acquire pairing the
// contract requires), so cloning, resetting, and upgrading are safe from any
// goroutine. The pointed-to value itself is never synchronized; callers
// mutating it concurrently bring their own synchronization or duplicate the
// value first (see Duplicate).
//
// A control block commits to one counting discipline at allocation time; the
// two pairs never share a block.
//
// # Lifecycle
//
// Every allocation moves monotonically through
//
//	Allocated → Live → Destructed → Freed
//
// The destructor registered for the wrapped type runs exactly once, the
// instant the primary-owner count drops from 1 to 0. The region (control
// block plus value, co-allocated) returns to its allocator once no observers
// remain either.
//
// Reference cycles between co-owners are never collected; that is the
// documented cost of refcounting without a garbage collector. Break cycles
// by hand, or point back edges at observers.
//
// # Unsafe entry points
//
// Checked operations (Link, OuterCast, Upgrade, TakeOwn) fail soft with an
// empty result. Their *Unchecked counterparts trust the caller and have
// undefined behavior on a violated precondition. Use after release is
// undefined behavior by design and is not detected.
package rt
