package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrFileTooLarge is returned for raw files above the configured size limit
var ErrFileTooLarge = errors.New("file exceeds size limit")

// Loader reads raw corpus files fully into memory
type Loader struct {
	maxBytes int64
}

// NewLoader creates a new Loader. A non-positive maxBytes disables the limit.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// Load returns the content of the file at path
func (l *Loader) Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	if l.maxBytes <= 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return data, nil
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if info.Size() > l.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), l.maxBytes)
	}

	// Read with size limit; the file may grow after Stat
	data, err := io.ReadAll(io.LimitReader(f, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: %s, limit %d", ErrFileTooLarge, path, l.maxBytes)
	}

	return data, nil
}
