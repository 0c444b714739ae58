package alloc

import "iter"

// BlockID identifies a control block record inside a Directory.
// IDs of unlinked blocks are recycled.
type BlockID int32

// NoBlock is the absent link.
const NoBlock BlockID = -1

type record struct {
	off  int
	size int
	prev BlockID
	next BlockID
}

// Directory is the address-ordered chain of live control blocks of one pool.
type Directory struct {
	recs  []record
	spare []BlockID
	head  BlockID
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{head: NoBlock}
}

// Empty reports whether the pool has no live blocks.
func (d *Directory) Empty() bool { return d.head == NoBlock }

// Head returns the lowest-address block.
func (d *Directory) Head() (BlockID, bool) {
	return d.head, d.head != NoBlock
}

// Next returns the block following id in address order.
func (d *Directory) Next(id BlockID) (BlockID, bool) {
	n := d.recs[id].next
	return n, n != NoBlock
}

// Block returns a view of the block id.
func (d *Directory) Block(id BlockID) Block {
	r := d.recs[id]
	b := Block{Offset: r.off, Size: r.size, Prev: -1, Next: -1}
	if r.prev != NoBlock {
		b.Prev = d.recs[r.prev].off
	}
	if r.next != NoBlock {
		b.Next = d.recs[r.next].off
	}
	return b
}

// All walks the chain from the head in ascending address order.
func (d *Directory) All() iter.Seq2[BlockID, Block] {
	return func(yield func(BlockID, Block) bool) {
		for id := d.head; id != NoBlock; id = d.recs[id].next {
			if !yield(id, d.Block(id)) {
				return
			}
		}
	}
}

// Len counts the blocks in the chain.
func (d *Directory) Len() int {
	n := 0
	for id := d.head; id != NoBlock; id = d.recs[id].next {
		n++
	}
	return n
}

// Find returns the block whose payload starts at ref. It is a linear scan.
func (d *Directory) Find(ref Ref) (BlockID, bool) {
	for id := d.head; id != NoBlock; id = d.recs[id].next {
		if d.recs[id].off+HeaderSize == int(ref) {
			return id, true
		}
	}
	return NoBlock, false
}

// InsertHead links a new block in front of the current head.
// The caller guarantees off+HeaderSize+size does not reach the old head.
func (d *Directory) InsertHead(off, size int) BlockID {
	id := d.newRecord(off, size)
	if d.head != NoBlock {
		d.recs[id].next = d.head
		d.recs[d.head].prev = id
	}
	d.head = id
	return id
}

// InsertAfter links a new block between prev and prev's successor.
// The caller guarantees the block fits in the gap after prev.
func (d *Directory) InsertAfter(prev BlockID, off, size int) BlockID {
	id := d.newRecord(off, size)
	next := d.recs[prev].next
	d.recs[id].prev = prev
	d.recs[id].next = next
	d.recs[prev].next = id
	if next != NoBlock {
		d.recs[next].prev = id
	}
	return id
}

// Unlink removes id from the chain, patching its neighbours and the head.
func (d *Directory) Unlink(id BlockID) {
	r := d.recs[id]
	if r.off < 0 {
		return
	}
	if r.prev != NoBlock {
		d.recs[r.prev].next = r.next
	}
	if r.next != NoBlock {
		d.recs[r.next].prev = r.prev
	}
	if d.head == id {
		d.head = r.next
	}
	d.recs[id] = record{off: -1, prev: NoBlock, next: NoBlock}
	d.spare = append(d.spare, id)
}

// Reset drops every block.
func (d *Directory) Reset() {
	d.recs = d.recs[:0]
	d.spare = d.spare[:0]
	d.head = NoBlock
}

func (d *Directory) newRecord(off, size int) BlockID {
	r := record{off: off, size: size, prev: NoBlock, next: NoBlock}
	if n := len(d.spare); n > 0 {
		id := d.spare[n-1]
		d.spare = d.spare[:n-1]
		d.recs[id] = r
		return id
	}
	d.recs = append(d.recs, r)
	return BlockID(len(d.recs) - 1)
}
