package heapkit

// PoolStats bundles the size and count queries for one pool.
type PoolStats struct {
	Pool       int `json:"pool"`
	Capacity   int `json:"capacity"`
	Allocated  int `json:"allocated"`
	Free       int `json:"free"`
	LiveBlocks int `json:"live_blocks"`
}

func (s *System) valid(pool int) bool {
	return pool >= 0 && pool < len(s.allocs)
}

// Capacity returns the fixed byte size of pool, or 0 for an unknown pool.
func (s *System) Capacity(pool int) int {
	if !s.valid(pool) {
		return 0
	}
	return s.allocs[pool].Capacity()
}

// AllocatedSize sums header and payload bytes over the live blocks of pool.
func (s *System) AllocatedSize(pool int) int {
	if !s.valid(pool) {
		return 0
	}
	return s.allocs[pool].Allocated()
}

// FreeSize returns Capacity minus AllocatedSize. Free bytes may be split
// across several gaps, so a request of this size can still fail.
func (s *System) FreeSize(pool int) int {
	if !s.valid(pool) {
		return 0
	}
	return s.allocs[pool].Available()
}

// LiveBlocks counts the live allocations in pool.
func (s *System) LiveBlocks(pool int) int {
	if !s.valid(pool) {
		return 0
	}
	return s.allocs[pool].Live()
}

// Stats returns all accounting figures for pool.
func (s *System) Stats(pool int) (PoolStats, bool) {
	if !s.valid(pool) {
		return PoolStats{Pool: pool}, false
	}
	ff := s.allocs[pool]
	allocated := ff.Allocated()
	return PoolStats{
		Pool:       pool,
		Capacity:   ff.Capacity(),
		Allocated:  allocated,
		Free:       ff.Capacity() - allocated,
		LiveBlocks: ff.Live(),
	}, true
}

// AllStats returns Stats for every pool in id order.
func (s *System) AllStats() []PoolStats {
	out := make([]PoolStats, 0, len(s.allocs))
	for i := range s.allocs {
		st, _ := s.Stats(i)
		out = append(out, st)
	}
	return out
}
