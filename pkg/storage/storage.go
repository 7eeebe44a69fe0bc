package storage

import (
	"context"
	"fmt"
	"io"

	cfg "github.com/raghav2405/invoice-backend/config"
	"github.com/raghav2405/invoice-backend/pkg/logger"
	"github.com/raghav2405/invoice-backend/pkg/storage/local"
	"github.com/raghav2405/invoice-backend/pkg/storage/minio"
)

// StorageType selects the archive backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeMinio StorageType = "minio"
)

// Storage keeps a durable copy of every processed upload. Keys are the
// formatted upload filenames.
type Storage interface {
	// Store archives the file content under the given name
	Store(ctx context.Context, reader io.Reader, filename string) (string, error)
	// Get retrieves an archived file
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes an archived file
	Delete(ctx context.Context, key string) error
}

// NewStorage is the factory for archive backends
func NewStorage(storageType StorageType, log logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeLocal:
		return local.NewLocalStorage(cfg.GetArchiveConfig().Dir, log)
	case StorageTypeMinio:
		return minio.NewMinioStorage(log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
