package heapkit

import "github.com/joshuapare/heapkit/heap/alloc"

// Sentinel errors, shared with heap/alloc so errors.Is works across layers.
var (
	ErrAllocationFailure = alloc.ErrAllocationFailure
	ErrInvalidArgument   = alloc.ErrInvalidArgument
	ErrOutOfMemory       = alloc.ErrOutOfMemory
	ErrUnmanagedPointer  = alloc.ErrUnmanagedPointer
	ErrClosed            = alloc.ErrClosed
)
