package heapkit

import (
	"io"
	"log/slog"

	"github.com/joshuapare/heapkit/heap"
)

// Backing selects where pool buffers come from.
type Backing = heap.Backing

const (
	BackingHeap = heap.BackingHeap
	BackingMmap = heap.BackingMmap
)

// Options controls System construction. A nil *Options uses the defaults.
type Options struct {
	// Backing selects Go heap slices (default) or anonymous mmap regions.
	Backing Backing

	// Logger receives init, alloc-failure and unmanaged-free diagnostics.
	// If nil, all output is discarded.
	Logger *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *Options) backing() Backing {
	if o == nil {
		return BackingHeap
	}
	return o.Backing
}
