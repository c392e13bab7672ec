package cstr

import (
	"unsafe"

	"github.com/go-faster/errors"
)

// noCopy may be embedded into structs which must not be copied
// after first use, see go vet copylocks.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// String owns zero-terminated narrow string in unmanaged memory.
//
// Use *String and never copy the struct: pointer copies share single owner,
// so buffer is released only once. Close must be called before the last
// reference is dropped, otherwise memory leaks.
//
// Views returned by View are invalid after Close.
type String struct {
	noCopy noCopy
	v      View
	alloc  Allocator
	closed bool
}

// View returns borrowed handle to s. Null after Close.
func (s *String) View() View { return s.v }

// IsNull reports whether s was constructed from absent value or closed.
func (s *String) IsNull() bool { return s.v.IsNull() }

// Ptr returns address of first byte, which can be passed to foreign code
// while s is open. Ownership is not transferred.
func (s *String) Ptr() *byte { return s.v.p }

// Len returns count of bytes before terminator.
func (s *String) Len() int { return s.v.Len() }

// At returns byte at offset i, see View.At.
func (s *String) At(i int) byte { return s.v.At(i) }

// Bytes returns content without terminator, aliasing the buffer.
func (s *String) Bytes() []byte { return s.v.Bytes() }

// String decodes content as ASCII text.
func (s *String) String() string { return s.v.String() }

func (s *String) Compare(other View) int { return s.v.Compare(other) }
func (s *String) ComparePtr(p *byte) int { return s.v.ComparePtr(p) }
func (s *String) CompareString(text string) int { return s.v.CompareString(text) }
func (s *String) Equal(other View) bool { return s.v.Equal(other) }
func (s *String) EqualPtr(p *byte) bool { return s.v.EqualPtr(p) }
func (s *String) EqualString(text string) bool { return s.v.EqualString(text) }
func (s *String) Hash() uint64 { return s.v.Hash() }

// Close releases buffer. Second call returns ErrClosed.
//
// If allocator fails to free the buffer, s keeps it and can be closed again.
func (s *String) Close() error {
	if s.closed {
		return ErrClosed
	}
	if p := s.v.p; p != nil {
		if err := s.alloc.Free(unsafe.Pointer(p)); err != nil {
			return errors.Wrap(err, "free")
		}
	}
	s.v = Null
	s.closed = true

	return nil
}
