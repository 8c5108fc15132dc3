package alloc

import (
	"sync"
	"unsafe"
)

// Shared is the thread-safe allocation strategy: an Arena behind a mutex.
// Alloc and Dealloc may be called from any goroutine.
type Shared struct {
	mu sync.Mutex
	a  *Arena
}

// NewShared creates a shared arena with default tuning.
func NewShared() *Shared {
	return NewSharedProfile(Profile{})
}

// NewSharedProfile creates a shared arena tuned by prof.
func NewSharedProfile(prof Profile) *Shared {
	return &Shared{a: NewArenaProfile(prof)}
}

func (s *Shared) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Alloc(size, align)
}

func (s *Shared) Dealloc(p unsafe.Pointer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Dealloc(p)
}

// Usable reads only the region header in front of p, which no arena
// operation mutates after Alloc, so it takes no lock.
func (s *Shared) Usable(p unsafe.Pointer) uintptr {
	return s.a.Usable(p)
}

// Stats returns a snapshot of the underlying arena's counters.
func (s *Shared) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Stats()
}

// Release unmaps the underlying arena. Callers must guarantee no concurrent
// use of regions it produced.
func (s *Shared) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}
