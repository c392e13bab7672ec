// Package alloc implements heap of memory blocks that are not managed by
// the Go garbage collector.
//
// Blocks must be released explicitly with Heap.Free. Reading a block after it
// was freed is undefined behavior, but freeing it twice is detected.
package alloc

import (
	"fmt"
	"math/bits"
	"sync"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrInvalidFree means that freed address is not a live block of the heap,
// e.g. it was already freed.
var ErrInvalidFree = errors.New("invalid free")

// ErrClosed means that heap was closed.
var ErrClosed = errors.New("heap closed")

const (
	minClassShift = 4  // 16 bytes
	maxClassShift = 12 // 4KB
	numClasses    = maxClassShift - minClassShift + 1

	// MaxSmall is the largest block served from shared arenas.
	// Larger blocks get dedicated mapping.
	MaxSmall = 1 << maxClassShift

	defaultArenaSize = 64 * 1024 // 64KB
)

// Options for Heap.
type Options struct {
	Logger *zap.Logger
	// ArenaSize is the size of single mapping that is split into small
	// blocks. Rounded up to page size and to at least MaxSmall.
	ArenaSize int
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.ArenaSize <= 0 {
		o.ArenaSize = defaultArenaSize
	}
	if o.ArenaSize < MaxSmall {
		o.ArenaSize = MaxSmall
	}
	o.ArenaSize = roundUp(o.ArenaSize, pageSize())
}

type block struct {
	class int // -1 for dedicated mapping
	size  int
}

// Heap allocates unmanaged memory blocks.
//
// Small blocks are grouped by power of two size classes and carved out of
// arenas, freed small blocks are reused. Heap is safe for concurrent use.
type Heap struct {
	mux       sync.Mutex
	lg        *zap.Logger
	arenaSize int
	arenas    [][]byte
	free      [numClasses][]unsafe.Pointer
	live      map[uintptr]block
	large     map[uintptr][]byte
	closed    bool

	allocs atomic.Uint64
	frees  atomic.Uint64
	inUse  atomic.Int64
	mapped atomic.Int64
}

// New initializes new Heap. Memory is not mapped until first Alloc.
func New(opt Options) *Heap {
	opt.setDefaults()
	return &Heap{
		lg:        opt.Logger,
		arenaSize: opt.ArenaSize,
		live:      map[uintptr]block{},
		large:     map[uintptr][]byte{},
	}
}

func roundUp(n, to int) int {
	return (n + to - 1) / to * to
}

// classOf returns size class index for n bytes or -1 if n is too large
// for size classes.
func classOf(n int) int {
	if n > MaxSmall {
		return -1
	}
	shift := bits.Len(uint(n - 1))
	if shift < minClassShift {
		shift = minClassShift
	}
	return shift - minClassShift
}

func classSize(class int) int {
	return 1 << (class + minClassShift)
}

// Alloc allocates block of at least n bytes. Block content is undefined.
func (h *Heap) Alloc(n int) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, errors.Errorf("invalid size %d", n)
	}

	h.mux.Lock()
	defer h.mux.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	var p unsafe.Pointer
	class := classOf(n)
	if class < 0 {
		buf, err := mapRegion(roundUp(n, pageSize()))
		if err != nil {
			return nil, errors.Wrap(err, "map")
		}
		p = unsafe.Pointer(unsafe.SliceData(buf))
		h.large[uintptr(p)] = buf
		h.mapped.Add(int64(len(buf)))
		if ce := h.lg.Check(zap.DebugLevel, "Mapped large block"); ce != nil {
			ce.Write(zap.Int("size", n), zap.Int("mapped", len(buf)))
		}
	} else {
		if len(h.free[class]) == 0 {
			if err := h.grow(class); err != nil {
				return nil, errors.Wrap(err, "grow")
			}
		}
		list := h.free[class]
		p = list[len(list)-1]
		h.free[class] = list[:len(list)-1]
	}

	h.live[uintptr(p)] = block{class: class, size: n}
	h.allocs.Inc()
	h.inUse.Add(int64(n))

	return p, nil
}

// grow maps new arena and splits it to blocks of class.
func (h *Heap) grow(class int) error {
	arena, err := mapRegion(h.arenaSize)
	if err != nil {
		return errors.Wrap(err, "map arena")
	}
	h.arenas = append(h.arenas, arena)
	h.mapped.Add(int64(len(arena)))

	size := classSize(class)
	// Pushing in reverse, so first blocks are served first.
	for off := len(arena) - size; off >= 0; off -= size {
		h.free[class] = append(h.free[class], unsafe.Pointer(&arena[off]))
	}
	if ce := h.lg.Check(zap.DebugLevel, "Mapped arena"); ce != nil {
		ce.Write(
			zap.Int("class_size", size),
			zap.Int("blocks", len(arena)/size),
			zap.Int("arenas", len(h.arenas)),
		)
	}

	return nil
}

// Free releases block returned by Alloc. Freeing nil is no-op.
//
// Returns ErrInvalidFree if p is not a live block, e.g. on double free.
func (h *Heap) Free(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}

	h.mux.Lock()
	defer h.mux.Unlock()

	if h.closed {
		return ErrClosed
	}

	b, ok := h.live[uintptr(p)]
	if !ok {
		return errors.Wrapf(ErrInvalidFree, "%p", p)
	}
	delete(h.live, uintptr(p))
	h.frees.Inc()
	h.inUse.Sub(int64(b.size))

	if b.class >= 0 {
		h.free[b.class] = append(h.free[b.class], p)
		return nil
	}

	buf := h.large[uintptr(p)]
	delete(h.large, uintptr(p))
	h.mapped.Sub(int64(len(buf)))
	if err := unmapRegion(buf); err != nil {
		return errors.Wrap(err, "unmap")
	}

	return nil
}

// Size returns requested size of live block p.
func (h *Heap) Size(p unsafe.Pointer) (int, bool) {
	h.mux.Lock()
	defer h.mux.Unlock()

	b, ok := h.live[uintptr(p)]
	return b.size, ok
}

// Stats of Heap.
type Stats struct {
	Allocs uint64 // total blocks allocated
	Frees  uint64 // total blocks freed
	InUse  int64  // bytes requested by live blocks
	Mapped int64  // bytes mapped from OS
}

// Live returns count of live blocks.
func (s Stats) Live() uint64 {
	return s.Allocs - s.Frees
}

func (s Stats) String() string {
	return fmt.Sprintf("%d live blocks (%s), %s mapped",
		s.Live(),
		humanize.Bytes(uint64(s.InUse)),
		humanize.Bytes(uint64(s.Mapped)),
	)
}

// Stats returns current heap stats.
func (h *Heap) Stats() Stats {
	return Stats{
		Allocs: h.allocs.Load(),
		Frees:  h.frees.Load(),
		InUse:  h.inUse.Load(),
		Mapped: h.mapped.Load(),
	}
}

// Close unmaps all memory, invalidating every block, including live ones.
func (h *Heap) Close() (err error) {
	h.mux.Lock()
	defer h.mux.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if n := len(h.live); n > 0 {
		h.lg.Warn("Closing heap with live blocks", zap.Int("live", n))
	}
	for _, a := range h.arenas {
		err = multierr.Append(err, unmapRegion(a))
	}
	for _, b := range h.large {
		err = multierr.Append(err, unmapRegion(b))
	}

	h.arenas = nil
	h.large = nil
	h.live = nil
	h.free = [numClasses][]unsafe.Pointer{}
	h.mapped.Store(0)
	h.inUse.Store(0)

	return err
}
