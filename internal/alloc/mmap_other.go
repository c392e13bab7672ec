//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package alloc

import "os"

// Without mmap regions are allocated by Go runtime. The heap keeps them
// referenced until unmapped, and Go GC does not move objects, so block
// addresses stay valid.
func mapRegion(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func unmapRegion([]byte) error { return nil }

func pageSize() int { return os.Getpagesize() }
