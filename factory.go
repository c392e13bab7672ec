package cstr

import (
	"bytes"
	"unsafe"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/go-faster/cstr/internal/alloc"
)

// Allocator of unmanaged memory.
type Allocator interface {
	// Alloc returns block of at least n bytes.
	Alloc(n int) (unsafe.Pointer, error)
	// Free releases block returned by Alloc.
	Free(p unsafe.Pointer) error
}

var _ Allocator = (*alloc.Heap)(nil)

// defaultHeap maps memory lazily, so it is safe to initialize eagerly.
var defaultHeap = alloc.New(alloc.Options{})

// Options for Factory.
type Options struct {
	Logger *zap.Logger
	// Allocator for string buffers, package-wide heap by default.
	Allocator Allocator
	// Encoding of text, ASCII by default.
	Encoding Encoding
	// Lossy enables writing Replacement instead of runes that can't be
	// encoded. By default such text fails with *EncodingError.
	Lossy bool
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Allocator == nil {
		o.Allocator = defaultHeap
	}
	if o.Encoding.name == "" {
		o.Encoding = ASCII
	}
}

// Factory constructs owning strings.
type Factory struct {
	lg    *zap.Logger
	alloc Allocator
	enc   Encoding
	lossy bool
}

// NewFactory initializes new Factory.
func NewFactory(opt Options) *Factory {
	opt.setDefaults()
	return &Factory{
		lg:    opt.Logger,
		alloc: opt.Allocator,
		enc:   opt.Encoding,
		lossy: opt.Lossy,
	}
}

// Encoding returns text encoding of factory.
func (f *Factory) Encoding() Encoding { return f.enc }

// allocate returns String that owns n bytes and writable view of them.
func (f *Factory) allocate(n int) (*String, []byte, error) {
	p, err := f.alloc.Alloc(n)
	if err != nil {
		return nil, nil, errors.Wrap(err, "alloc")
	}
	s := &String{
		v:     View{p: (*byte)(p)},
		alloc: f.alloc,
	}
	return s, unsafe.Slice((*byte)(p), n), nil
}

// FromPtr copies foreign zero-terminated buffer, including terminator.
// Nil p yields Null string.
func (f *Factory) FromPtr(p *byte) (*String, error) {
	if p == nil {
		return &String{alloc: f.alloc}, nil
	}
	n := strlen(p) + 1
	s, buf, err := f.allocate(n)
	if err != nil {
		return nil, err
	}
	copy(buf, unsafe.Slice(p, n))

	return s, nil
}

// FromView copies content of v. Null v yields Null string.
func (f *Factory) FromView(v View) (*String, error) {
	return f.FromPtr(v.p)
}

// FromBytes copies b up to first zero byte or whole b if it has none.
// Empty or nil b yields empty string.
func (f *Factory) FromBytes(b []byte) (*String, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s, buf, err := f.allocate(len(b) + 1)
	if err != nil {
		return nil, err
	}
	copy(buf, b)
	buf[len(b)] = 0

	return s, nil
}

// FromString encodes text and copies it into new buffer.
//
// Terminator is appended unless text already ends with zero rune.
// Empty text yields single terminator byte.
func (f *Factory) FromString(text string) (*String, error) {
	if text == "" {
		s, buf, err := f.allocate(1)
		if err != nil {
			return nil, err
		}
		buf[0] = 0
		return s, nil
	}

	tmp := scratch.Get()
	defer scratch.Put(tmp)

	data, err := f.encode(tmp.Buf, text)
	tmp.Buf = data
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	if data[len(data)-1] != 0 {
		data = append(data, 0)
		tmp.Buf = data
	}

	s, buf, err := f.allocate(len(data))
	if err != nil {
		return nil, err
	}
	copy(buf, data)

	return s, nil
}

// FromStringPtr is FromString for optional text. Nil text yields
// Null string.
func (f *Factory) FromStringPtr(text *string) (*String, error) {
	if text == nil {
		return &String{alloc: f.alloc}, nil
	}
	return f.FromString(*text)
}

func (f *Factory) encode(dst []byte, text string) ([]byte, error) {
	if !f.lossy {
		return f.enc.Append(dst, text)
	}
	dst, replaced := f.enc.AppendLossy(dst, text)
	if replaced > 0 {
		if ce := f.lg.Check(zap.DebugLevel, "Replaced runes"); ce != nil {
			ce.Write(
				zap.Stringer("encoding", f.enc),
				zap.Int("replaced", replaced),
				zap.Int("bytes", len(dst)),
			)
		}
	}
	return dst, nil
}

// Decode decodes content of v with factory encoding.
func (f *Factory) Decode(v View) string {
	return f.enc.Decode(v.Bytes())
}

// String is Decode, the inverse of FromString for text that the factory
// encoding can represent.
func (f *Factory) String(v View) string {
	return f.Decode(v)
}

// CompareString compares v with text in factory encoding.
func (f *Factory) CompareString(v View, text string) int {
	return f.enc.Compare(v, text)
}

// EqualString reports whether v is equal to text in factory encoding.
func (f *Factory) EqualString(v View, text string) bool {
	return f.enc.Equal(v, text)
}

var defaultFactory = NewFactory(Options{})

// FromString is Factory.FromString of strict ASCII factory that allocates
// from package-wide heap.
func FromString(text string) (*String, error) {
	return defaultFactory.FromString(text)
}

// FromStringPtr is Factory.FromStringPtr of default factory.
func FromStringPtr(text *string) (*String, error) {
	return defaultFactory.FromStringPtr(text)
}

// FromPtr is Factory.FromPtr of default factory.
func FromPtr(p *byte) (*String, error) {
	return defaultFactory.FromPtr(p)
}

// FromView is Factory.FromView of default factory.
func FromView(v View) (*String, error) {
	return defaultFactory.FromView(v)
}

// FromBytes is Factory.FromBytes of default factory.
func FromBytes(b []byte) (*String, error) {
	return defaultFactory.FromBytes(b)
}
