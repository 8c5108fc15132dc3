//go:build unix

package alloc

import "golang.org/x/sys/unix"

// mapSlab obtains n bytes of anonymous memory from the operating system.
func mapSlab(n uintptr) ([]byte, error) {
	return unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
}

// unmapSlab returns a slab to the operating system.
func unmapSlab(b []byte) error {
	return unix.Munmap(b)
}
