// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/agenda/internal/models"
)

// SampleContacts returns two stored-looking contacts with fixed IDs and timestamps.
func SampleContacts() []*models.Contact {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	return []*models.Contact{
		{
			ID:        1,
			UID:       "6f1c1f36-5b0e-4c8e-9d2a-3c1b9b0f8a11",
			Name:      "Ana Lopez",
			Phone:     "555-1234",
			Email:     "ana@example.com",
			Address:   "Calle Mayor 1, Madrid",
			Notes:     "Met at PyCon; likes tea",
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		{
			ID:        2,
			UID:       "0b8f2d8e-2f47-4a57-8f0a-58f5d5d0e0c2",
			Name:      "Bo Chen",
			Phone:     "+1 (415) 555-0100",
			Email:     "bo@example.org",
			CreatedAt: ts,
			UpdatedAt: ts,
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FReader always returns an error on Read
type FReader struct{}

func (f *FReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to name inside a fresh temp directory and returns the full path.
func MustWriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}
