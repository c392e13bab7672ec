package cstr

import (
	"fmt"
	"unsafe"

	"github.com/go-faster/city"
)

// View is a borrowed handle to zero-terminated narrow string.
//
// View never owns referenced bytes: copying a View copies the address,
// and the view is valid only while owner of the buffer keeps it alive.
// Zero value is Null.
type View struct {
	p *byte
}

// IsNull reports whether v references no buffer.
func (v View) IsNull() bool { return v.p == nil }

// Ptr returns address of first byte, nil for Null.
func (v View) Ptr() *byte { return v.p }

// UnsafePointer returns address of first byte as unsafe.Pointer.
func (v View) UnsafePointer() unsafe.Pointer { return unsafe.Pointer(v.p) }

// Len returns count of bytes before terminator.
//
// Buffer is scanned on every call.
func (v View) Len() int { return strlen(v.p) }

// At returns byte at offset i. Offset Len() addresses the terminator.
//
// Range is not checked unless built with cstrcheck tag; out of range access
// is undefined behavior.
func (v View) At(i int) byte {
	if checked {
		if n := v.Len(); v.p == nil || i < 0 || i > n {
			panic(fmt.Sprintf("cstr: index %d out of range [0:%d]", i, n))
		}
	}
	return byteAt(v.p, i)
}

// Bytes returns content without terminator, aliasing the buffer.
// Returns nil for Null.
func (v View) Bytes() []byte {
	if v.p == nil {
		return nil
	}
	return unsafe.Slice(v.p, v.Len())
}

// String decodes content as ASCII text. Bytes that are not ASCII are
// decoded as utf8.RuneError. Null decodes to empty string.
func (v View) String() string {
	return ASCII.Decode(v.Bytes())
}

// ComparePtr compares v with foreign zero-terminated buffer, returning
// -1, 0 or 1. Null sorts after any non-null value.
func (v View) ComparePtr(p *byte) int {
	switch {
	case v.p == nil && p == nil:
		return 0
	case v.p == nil:
		return 1
	case p == nil:
		return -1
	}
	return compare(ptrSource{p: v.p}, ptrSource{p: p})
}

// Compare compares v and other, see ComparePtr.
func (v View) Compare(other View) int {
	return v.ComparePtr(other.p)
}

// CompareString compares v with text s converted to ASCII units, see
// Encoding.Compare. Null sorts after any text.
func (v View) CompareString(s string) int {
	return ASCII.Compare(v, s)
}

// EqualPtr reports whether v has same content as foreign zero-terminated
// buffer. Null is equal only to Null or nil.
func (v View) EqualPtr(p *byte) bool {
	if v.p == nil || p == nil {
		return v.p == p
	}
	if v.p == p {
		return true
	}
	if v.Len() != strlen(p) {
		return false
	}
	return equalBytes(ptrSource{p: v.p}, ptrSource{p: p})
}

// Equal reports whether v and other have same content.
func (v View) Equal(other View) bool {
	return v.EqualPtr(other.p)
}

// EqualString reports whether v is equal to text s converted to ASCII
// units, see Encoding.Equal. Null is not equal to any text.
func (v View) EqualString(s string) bool {
	return ASCII.Equal(v, s)
}

// Hash returns CityHash64 of content bytes. Null hashes to 0.
func (v View) Hash() uint64 {
	if v.p == nil {
		return 0
	}
	return city.Hash64(v.Bytes())
}
