package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"parrot/internal/fault"
)

// LocalStore keeps files in a single flat directory on disk.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Put(ctx context.Context, id string, data []byte) error {
	path, err := s.resolve(id)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (s *LocalStore) Get(ctx context.Context, id string) ([]byte, error) {
	path, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fault.New(fault.KindNotFound, "PDF file not found")
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *LocalStore) Exists(ctx context.Context, id string) (bool, error) {
	path, err := s.resolve(id)
	if err != nil {
		return false, nil
	}
	_, statErr := os.Stat(path)
	if errors.Is(statErr, fs.ErrNotExist) {
		return false, nil
	}
	if statErr != nil {
		return false, statErr
	}
	return true, nil
}

// resolve maps a file id onto the store root. Ids containing path
// separators or traversal segments are treated as unknown files.
func (s *LocalStore) resolve(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return "", fault.New(fault.KindNotFound, "PDF file not found")
	}
	return filepath.Join(s.root, id), nil
}
