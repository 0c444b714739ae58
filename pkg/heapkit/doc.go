// Package heapkit is the public API for fixed-pool heap allocation.
//
// A System owns N independently managed pools whose capacities are fixed
// when the System is created. Allocations come from one named pool and are
// returned as byte slices carved out of that pool's backing buffer. Freeing
// a slice finds its pool by address and releases the block; the space
// rejoins the neighbouring gaps automatically.
//
// Example:
//
//	sys, err := heapkit.New([]int{1 << 20, 3 << 20}, nil)
//	if err != nil {
//	    return err
//	}
//	defer sys.Close()
//
//	buf, err := sys.Alloc(1, 2<<20)
//	if errors.Is(err, heapkit.ErrOutOfMemory) {
//	    // pool 1 has no gap large enough
//	}
//	...
//	sys.Free(buf)
//
// # Errors
//
//   - ErrAllocationFailure: New could not obtain a backing buffer
//   - ErrInvalidArgument: bad size, pool id or capacity
//   - ErrOutOfMemory: no gap in the pool fits the request
//   - ErrClosed: the System was closed
//
// Free never reports errors. Slices that do not belong to any pool, or
// that do not start at a live payload, are logged and ignored.
//
// # Thread Safety
//
// A System is not safe for concurrent use. Guard it with one mutex, or one
// mutex per pool if callers never share pools.
package heapkit
