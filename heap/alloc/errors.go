package alloc

import "errors"

var (
	// ErrAllocationFailure indicates that a pool's backing buffer could not be obtained.
	ErrAllocationFailure = errors.New("alloc: backing buffer allocation failed")

	// ErrInvalidArgument indicates a non-positive size or an unknown pool id.
	ErrInvalidArgument = errors.New("alloc: invalid argument")

	// ErrOutOfMemory indicates that no gap in the pool is large enough.
	ErrOutOfMemory = errors.New("alloc: no gap large enough")

	// ErrUnmanagedPointer indicates a pointer that is not the payload of a live block.
	ErrUnmanagedPointer = errors.New("alloc: pointer not managed")

	// ErrClosed indicates use of a pool after its buffer was released.
	ErrClosed = errors.New("alloc: pool closed")
)
