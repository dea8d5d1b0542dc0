package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements Store using the local filesystem.
// Each key is one JSON file under basePath; slashes in keys become directories.
type LocalStore struct {
	basePath string // Root directory for stored documents (e.g., "./data")
}

// NewLocalStore creates a new local filesystem store.
//
// basePath is the directory where documents will be stored (created if it doesn't exist).
func NewLocalStore(basePath string) (*LocalStore, error) {
	if basePath == "" {
		basePath = "./data"
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}
	clean := filepath.Clean("/" + key)
	return filepath.Join(s.basePath, clean+".json"), nil
}

// Get reads a document from the local filesystem.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound(key)
		}
		return nil, errBackend("failed to read file", err)
	}

	return data, nil
}

// Put writes a document atomically by renaming a temporary file over the target.
func (s *LocalStore) Put(ctx context.Context, key string, value []byte) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errBackend("failed to create directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errBackend("failed to create file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return errBackend("failed to write file", err)
	}
	if err := tmp.Close(); err != nil {
		return errBackend("failed to write file", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return errBackend("failed to replace file", err)
	}

	return nil
}

// Delete removes a document from the local filesystem.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return errBackend("failed to delete file", err)
	}

	return nil
}
