// Package outfile writes ID lists to disk atomically.
//
// A list is written to a hidden temp file in the destination directory,
// flushed, and renamed over the destination, so readers see either the old
// list or the new one.
package outfile

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eduardolat/nanogen/internal/nanoid"
)

const (
	// FileMode is the permission mode for ID list files (0644)
	FileMode = 0644
	// TempFilePrefix is the prefix for temporary files
	TempFilePrefix = ".nanogen_"

	tempSuffixLength = 8
)

// Writer performs atomic ID list writes
type Writer struct {
	newID func() (string, error)
	now   func() time.Time
}

// New creates a new Writer
func New() *Writer {
	return NewWithDeps(tempSuffix, time.Now)
}

// NewWithDeps creates a new Writer with custom dependencies (for testing)
func NewWithDeps(idGen func() (string, error), timeNow func() time.Time) *Writer {
	return &Writer{newID: idGen, now: timeNow}
}

// tempSuffix is a short lowercase ID, safe on case-insensitive file systems.
func tempSuffix() (string, error) {
	return nanoid.Generate(rand.Reader, nanoid.Lowercase, tempSuffixLength)
}

// WriteResult contains information about a write operation
type WriteResult struct {
	// Changed is false when the file already held exactly these IDs
	Changed bool
	// Path is the final path of the written file
	Path string
	// Lines is the number of IDs written
	Lines int
}

// Encode renders IDs one per line with a trailing newline
func Encode(ids []string) []byte {
	if len(ids) == 0 {
		return []byte{}
	}
	return []byte(strings.Join(ids, "\n") + "\n")
}

// WriteAtomic replaces the file at path with ids, one per line.
// The file is left alone when its content would not change.
func (w *Writer) WriteAtomic(path string, ids []string) (*WriteResult, error) {
	content := Encode(ids)
	result := &WriteResult{Path: path, Lines: len(ids)}

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return result, nil
	}

	tempPath, err := w.tempPath(path)
	if err != nil {
		return nil, err
	}
	if err := writeTemp(tempPath, content); err != nil {
		return nil, err
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("failed to rename temp file: %w", err)
	}

	result.Changed = true
	return result, nil
}

// tempPath names the temp file <dir>/.nanogen_<UTC timestamp>_<id>
func (w *Writer) tempPath(path string) (string, error) {
	id, err := w.newID()
	if err != nil {
		return "", fmt.Errorf("failed to generate temp file ID: %w", err)
	}
	name := TempFilePrefix + w.now().UTC().Format("20060102_150405") + "_" + id
	return filepath.Join(filepath.Dir(path), name), nil
}

// writeTemp creates tempPath exclusively and writes content with FileMode
// regardless of the umask. A temp file it created is removed on error.
func writeTemp(tempPath string, content []byte) error {
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, FileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	steps := []struct {
		what string
		run  func() error
	}{
		{"set temp file permissions", func() error { return f.Chmod(FileMode) }},
		{"write content", func() error { _, err := f.Write(content); return err }},
		{"sync temp file", f.Sync},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			_ = f.Close()
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to %s: %w", step.what, err)
		}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return nil
}

// WriterProvider is an interface for atomic file writing
type WriterProvider interface {
	WriteAtomic(path string, ids []string) (*WriteResult, error)
}
