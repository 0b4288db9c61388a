package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File stores each key as <dir>/<key>.json.
type File struct {
	dir string
}

// NewFile creates a file slot rooted at dir. The directory is created on
// first save.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("file storage: directory required")
	}
	return &File{dir: dir}, nil
}

// Path returns the file a key is stored in.
func (s *File) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load implements Slot.
func (s *File) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Path(key), err)
	}
	return data, nil
}

// Save implements Slot. The file is replaced atomically so a crash never
// leaves a half-written collection behind.
func (s *File) Save(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.Path(key), err)
	}
	return nil
}

// Close implements Slot.
func (s *File) Close() error { return nil }
