package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/gncorpora/internal/model"
)

// Mode selects how the record store is opened
type Mode int

const (
	Append    Mode = iota // Keep existing records
	Overwrite             // Truncate before writing
)

// RecordStore writes annotated records as JSON lines
type RecordStore struct {
	path string
}

// NewRecordStore creates a record store at path
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

// Path returns the file path of the store
func (s *RecordStore) Path() string {
	return s.path
}

// Write persists records in one batch. The file is created even when
// records is empty.
func (s *RecordStore) Write(records []model.AnnotatedRecord, mode Mode) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if mode == Overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	f, err := os.OpenFile(s.path, flags, 0644)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode record: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write record store: %w", err)
	}
	return f.Close()
}

// Count returns the number of records in the store
func (s *RecordStore) Count() (int, error) {
	return CountLines(s.path)
}

// CountLines counts newline-terminated lines in a file, plus a trailing
// unterminated one
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 64*1024)
	count := 0
	last := byte('\n')
	for {
		n, err := f.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if last != '\n' {
		count++
	}
	return count, nil
}
