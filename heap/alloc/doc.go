// Package alloc places variable-sized blocks inside a single heap.Pool.
//
// # Overview
//
// Every live allocation is described by a control block: its header
// offset, its payload size, and links to its address-order neighbours.
// The control blocks of one pool form a Directory, a doubly-linked chain
// sorted by ascending offset. There is no free-list. Free space is always
// the gap before the head, between two consecutive blocks, or after the
// tail, recomputed from the neighbours whenever it is needed. Unlinking a
// block therefore merges its span with whatever gaps border it without any
// explicit coalescing step.
//
// # Layout
//
// Each block occupies HeaderSize + size bytes of the pool:
//
//	block offset          payload (Ref)                 block end
//	|<---- HeaderSize ---->|<----------- size ----------->|
//
// The header bytes are reserved but never written; the chain itself lives
// in the Directory, indexed by record slot.
//
// # Placement
//
// FirstFit.Alloc is strict first-fit by ascending address, in this order:
//
//  1. Empty pool: place at offset 0.
//  2. Head gap: place at offset 0, in front of the current head.
//  3. Walk from the head; the first inter-block gap (or the tail gap after
//     the last block) that fits receives the block.
//
// The same sequence of Alloc/Free calls always yields the same offsets.
//
// # Usage Example
//
//	p, err := heap.Open(0, 1<<20, heap.BackingHeap)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	ff, err := alloc.NewFirstFit(p)
//	if err != nil {
//	    return err
//	}
//	ref, buf, err := ff.Alloc(1024)
//	if err != nil {
//	    return err // alloc.ErrOutOfMemory when no gap fits
//	}
//	copy(buf, payload)
//	_ = ff.Free(ref)
//
// # Thread Safety
//
// FirstFit and Directory are not thread-safe. Callers must synchronize
// access externally, for example with one mutex per pool.
package alloc
