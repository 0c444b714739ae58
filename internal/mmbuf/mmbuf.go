// Package mmbuf provides the backing buffers that heap pools are carved from.
//
// A buffer is either an ordinary Go slice or, on unix, an anonymous private
// mapping that lives outside the Go heap. Both are returned together with a
// release function that is safe to call more than once.
package mmbuf

import (
	"errors"
	"fmt"
)

// ErrBadSize is returned when a buffer size is zero or negative.
var ErrBadSize = errors.New("mmbuf: size must be positive")

// Make returns a Go heap buffer of exactly size bytes.
func Make(size int) (data []byte, release func() error, err error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	defer func() {
		// make panics on sizes the runtime cannot satisfy
		if r := recover(); r != nil {
			data, release = nil, nil
			err = fmt.Errorf("mmbuf: cannot allocate %d bytes: %v", size, r)
		}
	}()
	data = make([]byte, size)
	return data, func() error { return nil }, nil
}
