//go:build !nounsafe

package cstr

import "unsafe"

// stringHeader represents runtime layout of string.
//
// Data points to first content byte, Len bytes follow it. Both fields are
// machine words, so there is no padding on any platform.
type stringHeader struct {
	Data unsafe.Pointer
	Len  int
}

// Layout must match string exactly.
var (
	_ [unsafe.Sizeof(stringHeader{}) - unsafe.Sizeof("")]struct{}
	_ [unsafe.Sizeof("") - unsafe.Sizeof(stringHeader{})]struct{}
)

// textData returns pointer to first byte of non-empty s.
func textData(s string) *byte {
	h := (*stringHeader)(unsafe.Pointer(&s)) // #nosec: G103 // memory layout matches
	return (*byte)(h.Data)
}

// borrowText returns content of s without copying.
//
// Result aliases s and must not be mutated.
func borrowText(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(textData(s), len(s))
}
