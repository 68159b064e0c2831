package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// FileSlot stores the snapshot as a single file on disk.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot backed by the file at path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (s *FileSlot) Read(context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSlotEmpty
		}
		return nil, err
	}
	return data, nil
}

func (s *FileSlot) Write(_ context.Context, data []byte) error {
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileSlot) Delete(context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
