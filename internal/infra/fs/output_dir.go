package fs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyFile is returned when a file exists but has no content.
var ErrEmptyFile = errors.New("file is empty")

// EnsureDir creates dir and its parents. An existing directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteFile writes data to dir/name, replacing any previous file, and checks
// the result on disk. It returns the path and the size written.
func WriteFile(dir, name string, data []byte) (string, int64, error) {
	path := filepath.Join(dir, name)
	if err := WriteAtomic(path, data); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	size, err := VerifyNonEmpty(path)
	if err != nil {
		return "", 0, err
	}
	return path, size, nil
}

// WriteBuffer is WriteFile for a bytes.Buffer.
func WriteBuffer(dir, name string, buf *bytes.Buffer) (string, int64, error) {
	return WriteFile(dir, name, buf.Bytes())
}

// VerifyNonEmpty stats path and removes it if it turned out empty.
func VerifyNonEmpty(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		os.Remove(path)
		return 0, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}
	return info.Size(), nil
}
