package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned by Get when no blob exists under the key
var ErrNotFound = errors.New("storage: key not found")

// Storage interface for keyed blob storage operations
type Storage interface {
	// Put stores data under key, replacing any previous value
	Put(ctx context.Context, key string, data io.Reader) error

	// Get retrieves the blob stored under key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob stored under key. Missing keys are not an error
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal  StorageType = "local"
	StorageTypeS3     StorageType = "s3"
	StorageTypeSQLite StorageType = "sqlite"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	SQLitePath   string // For sqlite storage
	S3Bucket     string // For S3 storage
	S3Prefix     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		path := cfg.LocalPath
		if path == "" {
			path = "./data/journal"
		}
		return NewLocalStorage(path)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("s3 storage requires a bucket")
		}
		return NewS3Storage(cfg)
	case StorageTypeSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "./data/journal.db"
		}
		return NewSQLiteStorage(path)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// ReadAll fetches the whole blob stored under key
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// validateKey rejects keys that could escape the storage namespace
func validateKey(key string) error {
	if key == "" {
		return errors.New("storage: empty key")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
