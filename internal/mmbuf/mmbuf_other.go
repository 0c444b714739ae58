//go:build !unix

package mmbuf

// Map falls back to a Go heap buffer when mmap is not available.
func Map(size int) ([]byte, func() error, error) {
	return Make(size)
}
