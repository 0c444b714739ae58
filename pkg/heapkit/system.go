package heapkit

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
)

// openPool is swapped out by tests to inject buffer failures.
var openPool = heap.Open

// System is a set of fixed-capacity pools with one first-fit allocator each.
type System struct {
	pools  []*heap.Pool
	allocs []*alloc.FirstFit
	log    *slog.Logger
	closed bool
}

// New creates one pool per entry of capacities, in order; the index of an
// entry is its pool id. If any buffer cannot be obtained, the pools created
// so far are released and the error matches ErrAllocationFailure.
func New(capacities []int, opts *Options) (*System, error) {
	s := &System{log: opts.logger()}
	if len(capacities) == 0 {
		return nil, fmt.Errorf("%w: %w: no pools configured", ErrAllocationFailure, ErrInvalidArgument)
	}

	backing := opts.backing()
	s.log.Debug("heapkit: init",
		"pools", len(capacities),
		"header_size", alloc.HeaderSize,
		"backing", backing.String())

	for id, capacity := range capacities {
		p, err := openPool(id, capacity, backing)
		if err != nil {
			s.log.Error("heapkit: pool allocation failed", "pool", id, "capacity", capacity, "error", err)
			_ = s.Close()
			if errors.Is(err, heap.ErrBadCapacity) || errors.Is(err, heap.ErrBadBacking) {
				return nil, fmt.Errorf("%w: %w: %w", ErrAllocationFailure, ErrInvalidArgument, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrAllocationFailure, err)
		}
		ff, err := alloc.NewFirstFit(p)
		if err != nil {
			_ = p.Close()
			_ = s.Close()
			return nil, fmt.Errorf("%w: %w", ErrAllocationFailure, err)
		}
		s.pools = append(s.pools, p)
		s.allocs = append(s.allocs, ff)
		s.log.Debug("heapkit: pool ready", "pool", id, "capacity", capacity, "kib", capacity/1024)
	}
	return s, nil
}

// Close releases every pool buffer. All outstanding slices become invalid.
// Calling Close more than once is safe.
func (s *System) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for i, p := range s.pools {
		s.allocs[i].Reset()
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("pool %d: %w", i, err))
		}
	}
	s.pools, s.allocs = nil, nil
	return errors.Join(errs...)
}

// NumPools returns the number of pools, or 0 once closed.
func (s *System) NumPools() int { return len(s.pools) }

// Alloc reserves size bytes from pool. The returned slice has len and cap
// equal to size, is not zeroed, and stays valid until Free or Close.
// On failure the slice is nil and the error matches ErrInvalidArgument,
// ErrOutOfMemory or ErrClosed.
func (s *System) Alloc(pool, size int) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if pool < 0 || pool >= len(s.allocs) {
		return nil, fmt.Errorf("%w: pool %d not in [0, %d)", ErrInvalidArgument, pool, len(s.allocs))
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidArgument, size)
	}
	_, buf, err := s.allocs[pool].Alloc(size)
	if err != nil {
		s.log.Debug("heapkit: alloc failed", "pool", pool, "size", size, "error", err)
		return nil, err
	}
	return buf, nil
}

// Free releases the block whose payload p is. Empty slices are ignored,
// as are slices outside every pool or not starting at a live payload.
// After Close, Free does nothing.
func (s *System) Free(p []byte) {
	if len(p) == 0 || s.closed {
		return
	}
	pool, ok := s.OwningPool(p)
	if !ok {
		s.log.Warn("heapkit: pointer not managed by this system", "addr", fmt.Sprintf("%#x", heap.AddrOf(p)))
		return
	}
	_, off, _ := s.Locate(p)
	if err := s.allocs[pool].Free(alloc.Ref(off)); err != nil {
		s.log.Debug("heapkit: free ignored", "pool", pool, "error", err)
	}
}

// OwningPool returns the pool whose buffer contains p's first byte.
// Pools are tested in id order.
func (s *System) OwningPool(p []byte) (int, bool) {
	if len(p) == 0 {
		return 0, false
	}
	addr := heap.AddrOf(p)
	for i, pl := range s.pools {
		if pl.Contains(addr) {
			return i, true
		}
	}
	return 0, false
}

// Locate returns the owning pool of p and the offset of p's first byte
// from that pool's base.
func (s *System) Locate(p []byte) (pool, offset int, ok bool) {
	pool, ok = s.OwningPool(p)
	if !ok {
		return 0, 0, false
	}
	offset, _ = s.pools[pool].Offset(p)
	return pool, offset, true
}

// Verify checks the block chain invariants of every pool.
func (s *System) Verify() error {
	for i, ff := range s.allocs {
		if err := verify.FirstFit(ff); err != nil {
			return fmt.Errorf("pool %d: %w", i, err)
		}
	}
	return nil
}
