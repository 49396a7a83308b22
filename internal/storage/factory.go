package storage

import (
	"context"
	"fmt"

	"github.com/imedwei/k8s-secrets-backup/internal/config"
)

// NewStorage creates the storage provider from configuration.
//
// Operations are not wrapped with retry logic; failures surface directly and
// the underlying HTTP client's defaults are the only resilience layer.
func NewStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	s3Config := S3Config{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
		Prefix:          cfg.S3BackupDir,
		UsePathStyle:    cfg.S3Endpoint != "", // Use path style for custom endpoints
	}

	provider, err := NewS3Storage(ctx, s3Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 storage: %w", err)
	}

	return provider, nil
}
