package core

// streaming.go prepares raw data file bytes for the table parser:
//
//   - CountingReader: tracks bytes read for load logging and the size cap
//   - NewDecodingReader: strips a UTF-8 BOM (common in files saved by
//     spreadsheet tools on Windows) and replaces invalid UTF-8 with U+FFFD
//
// Use WrapForLoading to apply both in the correct order.

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CountingReader wraps an io.Reader to track bytes read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader creates a counting reader.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// NewDecodingReader returns a reader yielding valid UTF-8 with any leading
// byte order mark removed.
func NewDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// WrapForLoading counts raw bytes and decodes them.
//
// Counting sits below decoding so the count reflects the bytes that came off
// the wire, not the decoded output.
func WrapForLoading(r io.Reader) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r)
	return NewDecodingReader(counter), counter
}
