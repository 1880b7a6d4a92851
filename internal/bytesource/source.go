// Package bytesource loads program images and hands their bytes out one at a
// time, front to back.
package bytesource

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrUnavailable is returned when the input cannot be opened or read.
var ErrUnavailable = errors.New("source unavailable")

// Source is an immutable byte buffer with a forward-only cursor.
type Source struct {
	Path  string
	bytes []byte
	pos   int
}

// Load reads the whole file at path into memory.
func Load(path string) (*Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file not found: %s", ErrUnavailable, path)
		}
		return nil, fmt.Errorf("%w: cannot access file: %w", ErrUnavailable, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnavailable, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %w", ErrUnavailable, err)
	}

	slog.Debug("Loaded program image", "file", path, "size", len(data))

	return &Source{Path: path, bytes: data}, nil
}

// FromBytes wraps an in-memory buffer. The slice must not be modified
// afterwards.
func FromBytes(b []byte) *Source {
	return &Source{bytes: b}
}

// Next returns the next byte, or ok=false once every byte has been read.
func (s *Source) Next() (b byte, ok bool) {
	if s.pos >= len(s.bytes) {
		return 0, false
	}
	b = s.bytes[s.pos]
	s.pos++
	return b, true
}

// Len returns the total size of the buffer.
func (s *Source) Len() int {
	return len(s.bytes)
}

// Offset returns how many bytes have been consumed.
func (s *Source) Offset() int {
	return s.pos
}

// Remaining returns how many bytes are left.
func (s *Source) Remaining() int {
	return len(s.bytes) - s.pos
}

// Bytes returns a copy of the whole buffer, independent of the cursor.
func (s *Source) Bytes() []byte {
	out := make([]byte, len(s.bytes))
	copy(out, s.bytes)
	return out
}
