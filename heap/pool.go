package heap

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/joshuapare/heapkit/internal/mmbuf"
)

// MaxCapacity is the largest pool capacity accepted by Open (32-bit sizes).
const MaxCapacity int64 = 1<<32 - 1

// Backing selects where a pool's buffer comes from.
type Backing uint8

const (
	BackingHeap Backing = iota
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMmap:
		return "mmap"
	default:
		return fmt.Sprintf("Backing(%d)", uint8(b))
	}
}

var (
	// ErrBadCapacity indicates a capacity that is not in (0, MaxCapacity].
	ErrBadCapacity = errors.New("heap: capacity out of range")

	// ErrBadBacking indicates an unknown Backing value.
	ErrBadBacking = errors.New("heap: unknown backing")
)

// Pool is one contiguous, fixed-capacity backing buffer.
type Pool struct {
	id      int
	data    []byte
	release func() error
}

// Open obtains a backing buffer of exactly capacity bytes for pool id.
func Open(id, capacity int, backing Backing) (*Pool, error) {
	if capacity <= 0 || int64(capacity) > MaxCapacity {
		return nil, fmt.Errorf("%w: pool %d: %d bytes", ErrBadCapacity, id, capacity)
	}

	var (
		data    []byte
		release func() error
		err     error
	)
	switch backing {
	case BackingHeap:
		data, release, err = mmbuf.Make(capacity)
	case BackingMmap:
		data, release, err = mmbuf.Map(capacity)
	default:
		return nil, fmt.Errorf("%w: %v", ErrBadBacking, backing)
	}
	if err != nil {
		return nil, fmt.Errorf("heap: pool %d: %w", id, err)
	}
	return &Pool{id: id, data: data, release: release}, nil
}

// ID returns the pool index.
func (p *Pool) ID() int { return p.id }

// Capacity returns the buffer size in bytes, or 0 once the pool is closed.
func (p *Pool) Capacity() int { return len(p.data) }

// Bytes returns the whole backing buffer. Do not retain it past Close.
func (p *Pool) Bytes() []byte { return p.data }

// Closed reports whether Close has released the buffer.
func (p *Pool) Closed() bool { return p.data == nil }

// Base returns the address of the first byte of the buffer.
func (p *Pool) Base() uintptr {
	if p.data == nil {
		return 0
	}
	return AddrOf(p.data)
}

// End returns the address one past the last byte of the buffer.
func (p *Pool) End() uintptr {
	return p.Base() + uintptr(len(p.data))
}

// Contains reports whether addr lies within [Base, End).
func (p *Pool) Contains(addr uintptr) bool {
	if p.data == nil {
		return false
	}
	return addr >= p.Base() && addr < p.End()
}

// Offset returns the offset of b's first byte from Base, if b starts inside
// this pool. Empty slices never belong to a pool.
func (p *Pool) Offset(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	addr := AddrOf(b)
	if !p.Contains(addr) {
		return 0, false
	}
	return int(addr - p.Base()), true
}

// Close releases the backing buffer. Calling Close more than once is safe.
func (p *Pool) Close() error {
	if p == nil || p.data == nil {
		return nil
	}
	p.data = nil
	if p.release == nil {
		return nil
	}
	err := p.release()
	p.release = nil
	return err
}

// AddrOf returns the address of b's first element (or of its backing array
// when b is empty but non-nil).
func AddrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
