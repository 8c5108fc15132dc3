package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robin-raymond/zaxrt/rt/alloc"
)

type resource struct {
	name string
}

func TestOwnMoveSemantics(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	o, err := NewOwn(a, resource{name: "x"})
	require.NoError(t, err)

	moved := o.Move()
	assert.True(t, o.Empty(), "source emptied by move")
	assert.False(t, moved.Empty())
	assert.Equal(t, "x", moved.Get().name)
	moved.Reset()
}

func TestOwnAdoptDestroysPrevious(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	destructs := 0
	RegisterDestructor[resource](func(*resource) { destructs++ })

	dst, err := NewOwn(a, resource{name: "old"})
	require.NoError(t, err)
	src, err := NewOwn(a, resource{name: "new"})
	require.NoError(t, err)

	dst.Adopt(&src)
	assert.Equal(t, 1, destructs, "previous value destroyed by move-assign")
	assert.True(t, src.Empty())
	assert.Equal(t, "new", dst.Get().name)

	dst.Reset()
	assert.Equal(t, 2, destructs)
	assert.Zero(t, a.Stats().InUse)
}

func TestOwnResetRunsDestructorOnce(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	destructs := 0
	RegisterDestructor[resource](func(*resource) { destructs++ })

	o, err := NewOwn(a, resource{name: "r"})
	require.NoError(t, err)
	o.Reset()
	o.Reset() // second reset is a no-op
	assert.Equal(t, 1, destructs)
}

func TestTransferOwnToHandleAndBack(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	destructs := 0
	RegisterDestructor[resource](func(*resource) { destructs++ })

	o, err := NewOwn(a, resource{name: "rt"})
	require.NoError(t, err)
	addr := o.Get()

	h, ok := ToHandle(&o)
	require.True(t, ok)
	assert.True(t, o.Empty(), "transfer empties the owner")
	assert.Equal(t, uintptr(1), h.Count())
	assert.Same(t, addr, h.Get(), "transfer never reallocates")

	back, ok := TakeOwn(&h)
	require.True(t, ok)
	assert.True(t, h.Empty())
	assert.Same(t, addr, back.Get(), "round trip preserves address identity")
	assert.Equal(t, 0, destructs)

	back.Reset()
	assert.Equal(t, 1, destructs, "exactly one destruct over the whole round trip")
	assert.Zero(t, a.Stats().InUse)
}

// TestTakeOwnRequiresSoleOwner pins the chosen conflict policy: retaking
// exclusive ownership while other co-owners exist yields an empty result
// and leaves the source untouched.
func TestTakeOwnRequiresSoleOwner(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	h, err := New(a, resource{name: "shared"})
	require.NoError(t, err)
	h2 := h.Clone()

	o, ok := TakeOwn(&h)
	assert.False(t, ok)
	assert.True(t, o.Empty())
	assert.False(t, h.Empty(), "failed take leaves the handle alone")
	assert.Equal(t, uintptr(2), h.Count())

	h2.Reset()
	o, ok = TakeOwn(&h)
	require.True(t, ok, "take succeeds once sole owner")
	o.Reset()
}

func TestTakeOwnAtomic(t *testing.T) {
	a := alloc.NewShared()
	defer a.Release()

	s, err := NewAtomic(a, resource{name: "s"})
	require.NoError(t, err)
	s2 := s.Clone()

	_, ok := TakeOwnAtomic(&s)
	assert.False(t, ok, "count==2 blocks the take")

	s2.Reset()
	o, ok := TakeOwnAtomic(&s)
	require.True(t, ok)

	back, ok := ToStrong(&o)
	require.True(t, ok)
	back.Reset()
	assert.Zero(t, a.Stats().InUse)
}

// TestObserversCannotUpgradeAgainstOwn: once an Own holds the value
// exclusively, observers from the shared phase fail to upgrade.
func TestObserversCannotUpgradeAgainstOwn(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	h, err := New(a, resource{name: "excl"})
	require.NoError(t, err)
	hint := h.Observe()
	defer hint.Reset()

	o, ok := TakeOwn(&h)
	require.True(t, ok)

	_, upgraded := hint.Upgrade()
	assert.False(t, upgraded, "exclusive tenure blocks upgrades")

	// Transfer back to shared: upgrades work again.
	h2, ok := ToHandle(&o)
	require.True(t, ok)
	got, upgraded := hint.Upgrade()
	assert.True(t, upgraded)
	got.Reset()
	h2.Reset()
}

// TestObserverOutlivesOwn: region stays mapped for the observer even after
// the Own destroys the value.
func TestObserverOutlivesOwn(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	h, err := New(a, resource{name: "late"})
	require.NoError(t, err)
	hint := h.Observe()

	o, ok := TakeOwn(&h)
	require.True(t, ok)
	held := a.Stats().InUse
	o.Reset()
	assert.Equal(t, held, a.Stats().InUse, "observer pins the region")
	hint.Reset()
	assert.Zero(t, a.Stats().InUse)
}

func TestDisciplineMismatchTransfers(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	o, err := NewOwn(a, 1) // plain-committed
	require.NoError(t, err)
	_, ok := ToStrong(&o)
	assert.False(t, ok, "plain-committed Own cannot become a Strong")
	assert.False(t, o.Empty(), "failed transfer leaves the owner alone")

	h, ok := ToHandle(&o)
	require.True(t, ok)
	h.Reset()

	oa, err := NewOwnAtomic(a, 2)
	require.NoError(t, err)
	_, ok = ToHandle(&oa)
	assert.False(t, ok, "atomic-committed Own cannot become a Handle")
	s, ok := ToStrong(&oa)
	require.True(t, ok)
	s.Reset()
}
