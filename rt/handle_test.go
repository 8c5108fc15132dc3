package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robin-raymond/zaxrt/rt/alloc"
)

func TestHandleCloneSharesValue(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	h, err := New(a, 10)
	require.NoError(t, err)
	defer h.Reset()

	h2 := h.Clone()
	defer h2.Reset()

	assert.Same(t, h.Get(), h2.Get())
	assert.Equal(t, uintptr(2), h.Count())

	*h2.Get() = 99
	assert.Equal(t, 99, *h.Get())
}

func TestEmptyHandleOperations(t *testing.T) {
	var h Handle[int]
	assert.True(t, h.Empty())
	assert.Nil(t, h.Get())
	assert.Zero(t, h.Count())
	h.Reset() // no-op
	assert.True(t, h.Clone().Empty())
	assert.True(t, h.Observe().Empty())
}

func TestHintUpgradeWhileLive(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	h, err := New(a, "alive")
	require.NoError(t, err)
	o := h.Observe()
	defer o.Reset()

	got, ok := o.Upgrade()
	require.True(t, ok)
	assert.Same(t, h.Get(), got.Get(), "upgrade shares the same control block")
	assert.Equal(t, uintptr(2), h.Count())
	got.Reset()
	h.Reset()
}

func TestHintUpgradeAfterRelease(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	h, err := New(a, "gone")
	require.NoError(t, err)
	o := h.Observe()
	defer o.Reset()

	h.Reset()
	got, ok := o.Upgrade()
	assert.False(t, ok)
	assert.True(t, got.Empty())
}

func TestEmptyHintOperations(t *testing.T) {
	var o Hint[int]
	assert.True(t, o.Empty())
	_, ok := o.Upgrade()
	assert.False(t, ok)
	o.Reset() // no-op
	assert.True(t, o.Clone().Empty())
}

func TestDuplicateIsIndependent(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	type payload struct{ n int }
	h, err := New(a, payload{n: 1})
	require.NoError(t, err)

	dup, err := Duplicate(a, h)
	require.NoError(t, err)

	assert.NotSame(t, h.Get(), dup.Get())
	h.Get().n = 7
	assert.Equal(t, 1, dup.Get().n, "duplicate shares no state")

	// The original's lifetime does not touch the duplicate.
	h.Reset()
	assert.Equal(t, 1, dup.Get().n)
	assert.Equal(t, uintptr(1), dup.Count())
	dup.Reset()
}

func TestDuplicateEmpty(t *testing.T) {
	a := alloc.NewArena()
	defer a.Release()

	dup, err := Duplicate(a, Handle[int]{})
	require.NoError(t, err)
	assert.True(t, dup.Empty())
}
