package alloc

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Profile holds arena tunables. The zero value means "all defaults"; it is
// valid to pass directly to NewArenaProfile.
type Profile struct {
	// SlabSize is the size of each anonymous mapping, in bytes.
	SlabSize int64 `toml:"slab_size"`

	// ChunkSize is the bump-allocation unit, in bytes. Must not exceed
	// SlabSize.
	ChunkSize int64 `toml:"chunk_size"`

	// MaxBytes caps live allocation; 0 means unbounded. Requests past the
	// cap fail with ErrOutOfMemory.
	MaxBytes int64 `toml:"max_bytes"`

	// Shared selects the mutex-guarded strategy in NewAllocator.
	Shared bool `toml:"shared"`
}

func (p Profile) withDefaults() Profile {
	if p.SlabSize == 0 {
		p.SlabSize = DefaultSlabSize
	}
	if p.ChunkSize == 0 {
		p.ChunkSize = DefaultChunkSize
	}
	return p
}

// Validate checks a profile for internal consistency.
func (p Profile) Validate() error {
	p = p.withDefaults()
	if p.SlabSize < 0 || p.ChunkSize < 0 || p.MaxBytes < 0 {
		return fmt.Errorf("alloc: profile sizes must be non-negative")
	}
	if p.ChunkSize > p.SlabSize {
		return fmt.Errorf("alloc: chunk_size %d exceeds slab_size %d", p.ChunkSize, p.SlabSize)
	}
	if p.ChunkSize < 4096 {
		return fmt.Errorf("alloc: chunk_size %d below minimum 4096", p.ChunkSize)
	}
	return nil
}

// LoadProfile reads and validates a TOML profile from path.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("alloc: load profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// NewAllocator builds the strategy prof asks for: a Shared arena when
// prof.Shared is set, a plain Arena otherwise.
func NewAllocator(prof Profile) Allocator {
	if prof.Shared {
		return NewSharedProfile(prof)
	}
	return NewArenaProfile(prof)
}
