// Package source loads datasets into the view engine.
//
// Datasets come from delimited text files, YAML documents or PostgreSQL
// tables. Every loader produces a core.Dataset; none of them infer column
// types. Text cells stay strings and the comparator orders them numerically
// or chronologically when they parse that way.
package source

// reader.go provides the streaming readers applied to dataset files.
//
//   - NewTextReader: drops a UTF-8 BOM and replaces invalid UTF-8 with U+FFFD
//   - limitReader: fails once more than a byte budget has been read
//
// Use wrap to apply both in the correct order.

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxFileSize is the largest dataset file loaded by default (100MB).
const DefaultMaxFileSize = 100 * 1024 * 1024

// NewTextReader wraps r so that a leading byte order mark is skipped and
// invalid UTF-8 sequences are replaced. Windows tools commonly emit both.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// limitReader counts bytes read and fails with ErrFileTooLarge once the
// budget is exceeded. A non-positive budget disables the limit.
type limitReader struct {
	reader    io.Reader
	BytesRead int64
	Max       int64
}

func (r *limitReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.Max > 0 && r.BytesRead > r.Max {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, r.Max)
	}
	return n, err
}

// wrap applies the size limit to the raw bytes, then text cleanup.
//
// The order matters: the budget is measured on the file as stored, before
// decoding can change its length.
func wrap(r io.Reader, maxBytes int64) (io.Reader, *limitReader) {
	lr := &limitReader{reader: r, Max: maxBytes}
	return NewTextReader(lr), lr
}
