// Package heap owns the fixed-capacity backing buffers ("pools") that
// heapkit allocates from.
//
// # Overview
//
// A Pool is purely passive storage: an id, a base address and a capacity
// that never change after Open. Nothing in this package decides where
// allocations go; that is the job of heap/alloc, which carves blocks out of
// Pool.Bytes.
//
// # Backing Buffers
//
//   - BackingHeap: an ordinary Go slice (default)
//   - BackingMmap: an anonymous private mapping outside the Go heap (unix);
//     other platforms fall back to BackingHeap
//
// Either way the buffer address is stable for the pool's lifetime, so
// payload slices handed out by heap/alloc can be mapped back to their pool
// by address-range containment (see Pool.Contains and Pool.Offset).
//
// # Thread Safety
//
// Pools are not thread-safe. Callers must synchronize access externally.
package heap
