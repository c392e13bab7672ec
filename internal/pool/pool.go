// Package pool implements typed wrapper over sync.Pool.
package pool

import "sync"

// Pool of T values.
type Pool[T any] struct {
	pool sync.Pool
}

// New returns Pool that calls generate when empty.
func New[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(v T) {
	p.pool.Put(v)
}

// Buffer is pooled byte slice.
type Buffer struct {
	Buf []byte
}

// Reset truncates buffer, preserving capacity.
func (b *Buffer) Reset() {
	b.Buf = b.Buf[:0]
}

// maxRetained is the largest buffer capacity returned to pool,
// so one huge text does not pin memory forever.
const maxRetained = 64 * 1024

// Buffers is a pool of byte buffers.
type Buffers struct {
	p *Pool[*Buffer]
}

// NewBuffers initializes pool of byte buffers.
func NewBuffers() Buffers {
	return Buffers{
		p: New(func() *Buffer { return new(Buffer) }),
	}
}

// Get returns empty buffer.
func (b Buffers) Get() *Buffer {
	buf := b.p.Get()
	buf.Reset()
	return buf
}

// Put returns buffer to pool.
func (b Buffers) Put(buf *Buffer) {
	if buf == nil || cap(buf.Buf) > maxRetained {
		return
	}
	b.p.Put(buf)
}
