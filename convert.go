package cstr

import (
	"bytes"
	"unsafe"
)

// ViewOf returns view of foreign zero-terminated buffer without copying.
//
// The buffer must outlive the view and must contain zero byte reachable
// from p. Nil p yields Null.
func ViewOf(p *byte) View {
	return View{p: p}
}

// ViewOfPointer is ViewOf for unsafe.Pointer.
func ViewOfPointer(p unsafe.Pointer) View {
	return View{p: (*byte)(p)}
}

// ViewOfBytes returns view of b content up to first zero byte without
// copying. Fails with ErrNoTerminator if b has no zero byte.
//
// The b must outlive the view and must not be modified.
func ViewOfBytes(b []byte) (View, error) {
	if bytes.IndexByte(b, 0) < 0 {
		return Null, ErrNoTerminator
	}
	return View{p: &b[0]}, nil
}
