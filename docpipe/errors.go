package docpipe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyFile rejects zero-length uploads at the boundary, before any
// adapter runs.
var ErrEmptyFile = errors.New("empty file")

// FileTooLargeError rejects oversized uploads at the boundary.
type FileTooLargeError struct {
	Size int64
	Max  int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %d bytes (max %d)", e.Size, e.Max)
}

// AdapterError wraps a single adapter's failure. Always recovered by the
// pipeline: it is logged, recorded in the outcome, and the chain continues.
type AdapterError struct {
	Adapter string
	Err     error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Adapter, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// ExtractionFailedError is terminal: every applicable adapter failed. It
// carries the per-adapter error list for diagnostics.
type ExtractionFailedError struct {
	Failures []Failure
}

func (e *ExtractionFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.AdapterName+": "+f.Error)
	}
	return "could not extract text from this file (" + strings.Join(parts, "; ") + ")"
}
