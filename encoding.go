package cstr

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/segmentio/asm/ascii"
	"golang.org/x/text/encoding/charmap"
)

// Replacement is written instead of runes that encoding can't represent.
const Replacement = '?'

// Encoding is a single-byte character encoding of text.
//
// Zero value is ASCII.
type Encoding struct {
	name string
	cm   *charmap.Charmap // nil for ASCII
}

var (
	// ASCII encodes runes below 0x80.
	ASCII = Encoding{name: "ascii"}
	// Latin1 is ISO 8859-1, encodes runes below 0x100.
	Latin1 = Encoding{name: "iso-8859-1", cm: charmap.ISO8859_1}
	// Windows1252 is Windows code page 1252.
	Windows1252 = Encoding{name: "windows-1252", cm: charmap.Windows1252}
)

// LookupEncoding returns encoding by name.
func LookupEncoding(name string) (Encoding, bool) {
	switch strings.ToLower(name) {
	case "", "ascii", "us-ascii":
		return ASCII, true
	case "latin1", "iso-8859-1":
		return Latin1, true
	case "windows-1252", "cp1252":
		return Windows1252, true
	default:
		return Encoding{}, false
	}
}

func (e Encoding) String() string {
	if e.name == "" {
		return ASCII.name
	}
	return e.name
}

func (e Encoding) encodeRune(r rune) (byte, bool) {
	if e.cm == nil {
		if r < utf8.RuneSelf {
			return byte(r), true
		}
		return Replacement, false
	}
	b, ok := e.cm.EncodeRune(r)
	if !ok {
		return Replacement, false
	}
	return b, true
}

// EncodingError is returned when text has rune that can't be represented
// in single byte.
type EncodingError struct {
	Encoding string
	Rune     rune
	Offset   int // byte offset of rune in text
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: can't encode %U at offset %d", e.Encoding, e.Rune, e.Offset)
}

// Append appends encoded s to dst, one byte per rune.
//
// Fails with *EncodingError on first rune that can't be represented.
// Invalid UTF-8 is decoded as utf8.RuneError and is not representable.
func (e Encoding) Append(dst []byte, s string) ([]byte, error) {
	if ascii.ValidString(s) {
		return append(dst, s...), nil
	}
	for i, r := range s {
		b, ok := e.encodeRune(r)
		if !ok {
			return dst, &EncodingError{Encoding: e.String(), Rune: r, Offset: i}
		}
		dst = append(dst, b)
	}
	return dst, nil
}

// AppendLossy appends encoded s to dst, writing Replacement for every rune
// that can't be represented. Returns count of replaced runes.
func (e Encoding) AppendLossy(dst []byte, s string) ([]byte, int) {
	if ascii.ValidString(s) {
		return append(dst, s...), 0
	}
	var replaced int
	for _, r := range s {
		b, ok := e.encodeRune(r)
		if !ok {
			replaced++
		}
		dst = append(dst, b)
	}
	return dst, replaced
}

// Decode decodes b up to first zero byte.
func (e Encoding) Decode(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if ascii.Valid(b) {
		return string(b)
	}
	var s strings.Builder
	s.Grow(len(b) + len(b)/2)
	for _, c := range b {
		switch {
		case c < utf8.RuneSelf:
			s.WriteByte(c)
		case e.cm != nil:
			s.WriteRune(e.cm.DecodeByte(c))
		default:
			s.WriteRune(utf8.RuneError)
		}
	}
	return s.String()
}

// Compare compares v with text s converted to single-byte units of e,
// returning -1, 0 or 1. Runes that e can't represent are compared as
// Replacement. Null sorts after any text.
func (e Encoding) Compare(v View, s string) int {
	if v.p == nil {
		return 1
	}
	b, buf := textBytes(e, s)
	defer release(buf)

	return compare(ptrSource{p: v.p}, bytesSource(b))
}

// Equal reports whether v is equal to text s converted to single-byte
// units of e.
//
// Length of v is checked against length of s in UTF-16 code units before
// conversion, so text with characters outside of Basic Multilingual Plane
// never matches. Null is not equal to any text.
func (e Encoding) Equal(v View, s string) bool {
	if v.p == nil {
		return false
	}
	if v.Len() != textLen(s) {
		return false
	}
	b, buf := textBytes(e, s)
	defer release(buf)

	return equalBytes(ptrSource{p: v.p}, bytesSource(b))
}
