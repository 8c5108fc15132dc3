package alloc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runtime.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
slab_size = 1048576
chunk_size = 8192
max_bytes = 262144
shared = true
`)
	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1048576), p.SlabSize)
	assert.Equal(t, int64(8192), p.ChunkSize)
	assert.Equal(t, int64(262144), p.MaxBytes)
	assert.True(t, p.Shared)
}

func TestLoadProfileDefaults(t *testing.T) {
	path := writeProfile(t, ``)
	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Zero(t, p.SlabSize, "defaults applied at construction, not load")

	a := NewArenaProfile(p)
	defer a.Release()
	_, err = a.Alloc(64, 8)
	assert.NoError(t, err)
}

func TestLoadProfileRejectsChunkLargerThanSlab(t *testing.T) {
	path := writeProfile(t, `
slab_size = 8192
chunk_size = 16384
`)
	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfileRejectsTinyChunk(t *testing.T) {
	path := writeProfile(t, `chunk_size = 512`)
	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestNewAllocatorSelectsStrategy(t *testing.T) {
	plain := NewAllocator(Profile{})
	_, ok := plain.(*Arena)
	assert.True(t, ok)

	shared := NewAllocator(Profile{Shared: true})
	_, ok = shared.(*Shared)
	assert.True(t, ok)
}
