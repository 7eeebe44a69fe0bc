package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// LocalStorage archives files under a directory on the local filesystem.
type LocalStorage struct {
	dir    string
	logger logger.Logger
}

func NewLocalStorage(dir string, log logger.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalStorage{
		dir:    dir,
		logger: log,
	}, nil
}

// Store implements Storage.Store
func (s *LocalStorage) Store(ctx context.Context, reader io.Reader, filename string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(filename))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		s.logger.Error("Failed to write archive file",
			logger.String("path", path),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	return filepath.Base(filename), nil
}

// Get implements Storage.Get
func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	return f, nil
}

// Delete implements Storage.Delete
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(key))); err != nil {
		return fmt.Errorf("failed to delete archive file: %w", err)
	}
	return nil
}
