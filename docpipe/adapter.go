package docpipe

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
)

// Adapter is one extraction strategy. CanHandle is a cheap applicability test
// (mime type, file extension, magic bytes) and must not attempt parsing;
// Extract does the actual work and returns an error rather than panicking so
// the pipeline can continue down the chain.
type Adapter interface {
	Name() string
	CanHandle(data []byte, mimeType, fileName string) bool
	Extract(ctx context.Context, data []byte, mimeType, fileName string) (Result, error)
}

// fileExt returns the lowercased extension without the dot.
func fileExt(fileName string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
}

// baseMime strips parameters ("text/plain; charset=utf-8" → "text/plain").
func baseMime(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

func hasPDFMagic(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

func hasZipMagic(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}
