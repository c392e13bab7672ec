package cstr

import (
	"unsafe"

	"github.com/segmentio/asm/ascii"

	"github.com/go-faster/cstr/internal/pool"
)

// byteAt returns byte at offset i from p.
func byteAt(p *byte, i int) byte {
	return *(*byte)(unsafe.Add(unsafe.Pointer(p), i)) // #nosec: G103
}

// strlen returns count of bytes before first zero byte, 0 for nil p.
func strlen(p *byte) int {
	if p == nil {
		return 0
	}
	n := 0
	for byteAt(p, n) != 0 {
		n++
	}
	return n
}

// source is byte sequence that reads as zero at its end.
type source interface {
	at(i int) byte
}

// ptrSource is zero-terminated buffer.
type ptrSource struct {
	p *byte
}

func (s ptrSource) at(i int) byte { return byteAt(s.p, i) }

// bytesSource is byte slice, terminated by first zero byte or by its end.
type bytesSource []byte

func (s bytesSource) at(i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// compare lexicographically compares unsigned bytes of a and b until first
// difference or shared terminator.
func compare[A, B source](a A, b B) int {
	for i := 0; ; i++ {
		x, y := a.at(i), b.at(i)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		case x == 0:
			return 0
		}
	}
}

// equalBytes reports whether a and b have same bytes up to terminator.
func equalBytes[A, B source](a A, b B) bool {
	for i := 0; ; i++ {
		x := a.at(i)
		if x != b.at(i) {
			return false
		}
		if x == 0 {
			return true
		}
	}
}

var scratch = pool.NewBuffers()

// textBytes returns s as single-byte units of e, mapping runes that e
// can't represent to Replacement. ASCII text is borrowed without copying,
// every encoding is ASCII-compatible.
//
// Non-nil buffer must be returned to scratch after use.
func textBytes(e Encoding, s string) ([]byte, *pool.Buffer) {
	if ascii.ValidString(s) {
		return borrowText(s), nil
	}
	buf := scratch.Get()
	buf.Buf, _ = e.AppendLossy(buf.Buf, s)
	return buf.Buf, buf
}

func release(buf *pool.Buffer) {
	if buf != nil {
		scratch.Put(buf)
	}
}

// textLen returns length of s in UTF-16 code units, which is the length
// of text before conversion to single-byte units.
func textLen(s string) int {
	if ascii.ValidString(s) {
		return len(s)
	}
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2 // surrogate pair
		} else {
			n++
		}
	}
	return n
}
