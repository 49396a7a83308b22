// Package storage defines the interface for backup storage providers.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Download when no object exists at the given key.
var ErrNotFound = errors.New("object not found")

// Storage defines the interface for backup storage operations.
type Storage interface {
	// Upload stores a backup object at the given key, replacing any
	// existing object at that key.
	Upload(ctx context.Context, key string, reader io.Reader, metadata map[string]string) error

	// Download returns the raw bytes of the object stored at the given key.
	// Returns ErrNotFound when the object does not exist.
	Download(ctx context.Context, key string) ([]byte, error)

	// List returns all stored objects under the given prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// GetLastBackupTime retrieves the timestamp of the most recent backup.
	GetLastBackupTime(ctx context.Context) (time.Time, error)
}

// ObjectInfo contains information about a stored backup object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}
