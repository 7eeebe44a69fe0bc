package config

import (
	"sync"
)

var (
	archiveOnce   sync.Once
	archiveConfig *ArchiveConfig
)

// ArchiveConfig selects where processed uploads are kept. Backend is either
// "local" or "minio".
type ArchiveConfig struct {
	Backend string
	Dir     string // local backend

	// minio backend
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Region     string
	BucketName string
}

func GetArchiveConfig() *ArchiveConfig {
	archiveOnce.Do(func() {
		loadEnv()

		archiveConfig = &ArchiveConfig{
			Backend:    getEnv("ARCHIVE_BACKEND", "local"),
			Dir:        getEnv("ARCHIVE_DIR", "files"),
			Endpoint:   getEnv("MINIO_ENDPOINT", ""),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:     false,
			Region:     getEnv("MINIO_REGION", ""),
			BucketName: getEnv("MINIO_BUCKET_NAME", "invoices"),
		}
	})
	return archiveConfig
}
