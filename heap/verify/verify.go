package verify

import (
	"fmt"
	"iter"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// ValidationError describes the first invariant violation found.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// FirstFit validates the live blocks of ff against its pool.
func FirstFit(ff *alloc.FirstFit) error {
	if err := Chain(ff.Capacity(), ff.Blocks()); err != nil {
		return err
	}
	return Accounting(ff.Capacity(), ff.Allocated(), ff.Available())
}

// Chain validates ordering, links and bounds of blocks in chain order.
func Chain(capacity int, blocks iter.Seq[alloc.Block]) error {
	prevOff, prevEnd := -1, 0
	var last *alloc.Block
	for b := range blocks {
		if b.Size <= 0 {
			return &ValidationError{
				Type:    "Block",
				Message: fmt.Sprintf("non-positive payload size %d", b.Size),
				Offset:  b.Offset,
			}
		}
		if b.Offset < 0 || b.End() > capacity {
			return &ValidationError{
				Type:    "Bounds",
				Message: fmt.Sprintf("block [0x%X, 0x%X) outside pool of %d bytes", b.Offset, b.End(), capacity),
				Offset:  b.Offset,
			}
		}
		if b.Offset <= prevOff {
			return &ValidationError{
				Type:    "Order",
				Message: fmt.Sprintf("block follows 0x%X but is not at a higher address", prevOff),
				Offset:  b.Offset,
			}
		}
		if b.Offset < prevEnd {
			return &ValidationError{
				Type:    "Overlap",
				Message: fmt.Sprintf("block starts before previous block end 0x%X", prevEnd),
				Offset:  b.Offset,
			}
		}
		if b.Prev != prevOff {
			return &ValidationError{
				Type:    "Link",
				Message: fmt.Sprintf("prev is 0x%X, expected 0x%X", b.Prev, prevOff),
				Offset:  b.Offset,
			}
		}
		if last != nil && last.Next != b.Offset {
			return &ValidationError{
				Type:    "Link",
				Message: fmt.Sprintf("next is 0x%X, expected 0x%X", last.Next, b.Offset),
				Offset:  last.Offset,
			}
		}
		prevOff, prevEnd = b.Offset, b.End()
		cur := b
		last = &cur
	}
	if last != nil && last.Next != -1 {
		return &ValidationError{
			Type:    "Link",
			Message: fmt.Sprintf("tail has next 0x%X", last.Next),
			Offset:  last.Offset,
		}
	}
	return nil
}

// Accounting validates that allocated and free bytes add up to capacity.
func Accounting(capacity, allocated, available int) error {
	if allocated < 0 || allocated > capacity {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("allocated %d outside [0, %d]", allocated, capacity),
			Offset:  -1,
		}
	}
	if allocated+available != capacity {
		return &ValidationError{
			Type:    "Accounting",
			Message: fmt.Sprintf("allocated %d + free %d != capacity %d", allocated, available, capacity),
			Offset:  -1,
		}
	}
	return nil
}
