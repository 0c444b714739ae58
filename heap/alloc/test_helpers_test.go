package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
)

// newTestFirstFit opens a Go heap backed pool of the given capacity and
// wraps it in a FirstFit. The pool is closed when the test ends.
func newTestFirstFit(t testing.TB, capacity int) *FirstFit {
	t.Helper()

	p, err := heap.Open(0, capacity, heap.BackingHeap)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	ff, err := NewFirstFit(p)
	require.NoError(t, err)
	return ff
}

// mustAlloc allocates size bytes and fails the test on error.
func mustAlloc(t testing.TB, ff *FirstFit, size int) (Ref, []byte) {
	t.Helper()
	ref, buf, err := ff.Alloc(size)
	require.NoError(t, err, "Alloc(%d)", size)
	return ref, buf
}

// offsets returns the header offsets of the live blocks in chain order.
func offsets(ff *FirstFit) []int {
	var out []int
	for b := range ff.Blocks() {
		out = append(out, b.Offset)
	}
	return out
}
