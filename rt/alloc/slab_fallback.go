//go:build !unix

package alloc

// Heap-backed slabs for platforms without anonymous mmap. The arena keeps a
// reference to every slab it carves, so the garbage collector leaves them
// alone until Release drops them.

func mapSlab(n uintptr) ([]byte, error) {
	return make([]byte, n), nil
}

func unmapSlab(_ []byte) error {
	return nil
}
