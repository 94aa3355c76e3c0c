// Package security provides guards for reading untrusted input.
package security

import (
	"errors"
	"io"
)

// ErrLimitExceeded is returned once a LimitedReader has yielded its budget
// and more input remains.
var ErrLimitExceeded = errors.New("input size limit exceeded")

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// Input longer than the limit fails with ErrLimitExceeded rather than a silent EOF.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if l.Remaining <= 0 {
		// Probe for a further byte so input of exactly the limit still succeeds.
		var probe [1]byte
		n, err := l.R.Read(probe[:])
		if n > 0 {
			return 0, ErrLimitExceeded
		}
		return 0, err
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
