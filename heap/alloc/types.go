package alloc

// HeaderSize is the number of bytes reserved in front of every payload.
// It matches a control block of two pointers and a 32-bit size on 64-bit
// targets.
const HeaderSize = 24

// Ref is the offset of a block's payload relative to the pool base.
type Ref int

// Block is a read-only view of one control block.
type Block struct {
	Offset int // header offset within the pool
	Size   int // payload size, header excluded
	Prev   int // offset of the previous block, -1 at the head
	Next   int // offset of the next block, -1 at the tail
}

// Ref returns the payload offset of the block.
func (b Block) Ref() Ref { return Ref(b.Offset + HeaderSize) }

// Span returns the bytes the block occupies, header included.
func (b Block) Span() int { return HeaderSize + b.Size }

// End returns the offset one past the last payload byte.
func (b Block) End() int { return b.Offset + b.Span() }
