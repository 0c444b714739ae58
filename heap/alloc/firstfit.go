package alloc

import (
	"fmt"
	"iter"

	"github.com/joshuapare/heapkit/heap"
)

// Allocator places and releases blocks inside one pool.
//
// Implementations:
//   - FirstFit: address-ordered first-fit over an implicit gap list
type Allocator interface {
	// Alloc reserves size payload bytes.
	// Returns the payload reference, the payload slice, and any error.
	Alloc(size int) (Ref, []byte, error)

	// Free releases the block whose payload starts at ref.
	Free(ref Ref) error
}

var _ Allocator = (*FirstFit)(nil)

// FirstFit allocates from a single pool with strict first-fit placement.
type FirstFit struct {
	pool *heap.Pool
	dir  *Directory
}

// NewFirstFit returns an allocator over an open pool with no live blocks.
func NewFirstFit(p *heap.Pool) (*FirstFit, error) {
	if p == nil || p.Closed() {
		return nil, ErrClosed
	}
	return &FirstFit{pool: p, dir: NewDirectory()}, nil
}

// Pool returns the underlying pool.
func (ff *FirstFit) Pool() *heap.Pool { return ff.pool }

// Alloc places a block of HeaderSize+size bytes in the first gap that fits.
// The returned slice has len and cap equal to size and is not zeroed.
func (ff *FirstFit) Alloc(size int) (Ref, []byte, error) {
	if size <= 0 {
		return 0, nil, fmt.Errorf("%w: size %d", ErrInvalidArgument, size)
	}
	capacity := ff.pool.Capacity()
	if capacity == 0 {
		return 0, nil, ErrClosed
	}
	// No gap can exceed the capacity; checking first also keeps
	// HeaderSize+size from overflowing.
	if size > capacity-HeaderSize {
		return 0, nil, ff.oom(size)
	}
	need := HeaderSize + size

	head, ok := ff.dir.Head()
	if !ok {
		return ff.payload(ff.dir.InsertHead(0, size))
	}

	if need <= ff.dir.recs[head].off {
		return ff.payload(ff.dir.InsertHead(0, size))
	}

	for id := head; ; {
		end := ff.dir.recs[id].off + HeaderSize + ff.dir.recs[id].size
		limit := capacity
		next, hasNext := ff.dir.Next(id)
		if hasNext {
			limit = ff.dir.recs[next].off
		}
		if need <= limit-end {
			return ff.payload(ff.dir.InsertAfter(id, end, size))
		}
		if !hasNext {
			break
		}
		id = next
	}
	return 0, nil, ff.oom(size)
}

// Free unlinks the block whose payload starts at ref. The bytes are left
// as they are; the span simply becomes part of the surrounding gap.
func (ff *FirstFit) Free(ref Ref) error {
	id, ok := ff.dir.Find(ref)
	if !ok {
		return fmt.Errorf("%w: pool %d ref %d", ErrUnmanagedPointer, ff.pool.ID(), ref)
	}
	ff.dir.Unlink(id)
	return nil
}

// Payload returns the payload slice of the live block at ref.
func (ff *FirstFit) Payload(ref Ref) ([]byte, error) {
	if ff.pool.Closed() {
		return nil, ErrClosed
	}
	id, ok := ff.dir.Find(ref)
	if !ok {
		return nil, fmt.Errorf("%w: pool %d ref %d", ErrUnmanagedPointer, ff.pool.ID(), ref)
	}
	_, buf, err := ff.payload(id)
	return buf, err
}

// Capacity returns the pool size in bytes.
func (ff *FirstFit) Capacity() int { return ff.pool.Capacity() }

// Allocated sums HeaderSize+size over the live blocks.
func (ff *FirstFit) Allocated() int {
	total := 0
	for _, b := range ff.dir.All() {
		total += b.Span()
	}
	return total
}

// Available returns Capacity minus Allocated.
func (ff *FirstFit) Available() int {
	return ff.Capacity() - ff.Allocated()
}

// Live counts the live blocks.
func (ff *FirstFit) Live() int { return ff.dir.Len() }

// Blocks iterates the live blocks in ascending address order.
func (ff *FirstFit) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for _, b := range ff.dir.All() {
			if !yield(b) {
				return
			}
		}
	}
}

// Reset forgets every live block. Outstanding payload slices become invalid.
func (ff *FirstFit) Reset() { ff.dir.Reset() }

func (ff *FirstFit) payload(id BlockID) (Ref, []byte, error) {
	r := ff.dir.recs[id]
	start := r.off + HeaderSize
	end := start + r.size
	return Ref(start), ff.pool.Bytes()[start:end:end], nil
}

func (ff *FirstFit) oom(size int) error {
	return fmt.Errorf("%w: pool %d: %d+%d bytes", ErrOutOfMemory, ff.pool.ID(), HeaderSize, size)
}
