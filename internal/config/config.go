// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultBackupDir is the key prefix used when S3_BACKUP_DIR is not set.
const DefaultBackupDir = "k8s-secrets-backup"

// Config holds all application configuration.
type Config struct {
	// Namespaces to back up or restore, in configured order.
	Namespaces []string

	// Object store configuration
	S3Bucket          string
	S3BackupDir       string
	S3Region          string
	S3Endpoint        string // Optional custom endpoint
	S3AccessKeyID     string
	S3SecretAccessKey string

	// Mode selection
	RestoreMode    bool
	ForceOverwrite bool

	// Respawn protection
	RespawnProtectionHours int
	ForceBackup            bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Namespaces:        splitNamespaces(os.Getenv("NAMESPACES")),
		S3Bucket:          os.Getenv("S3_BUCKET_NAME"),
		S3BackupDir:       os.Getenv("S3_BACKUP_DIR"),
		S3Region:          os.Getenv("S3_REGION"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT_URL"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
	}

	// Apply defaults for optional values
	if cfg.S3BackupDir == "" {
		cfg.S3BackupDir = DefaultBackupDir
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "us-east-1"
	}

	cfg.RestoreMode = getEnvBool("RESTORE_MODE", false)
	cfg.ForceOverwrite = getEnvBool("FORCE_OVERWRITE", false)
	cfg.RespawnProtectionHours = getEnvInt("RESPAWN_PROTECTION_HOURS", 0)
	cfg.ForceBackup = getEnvBool("FORCE_BACKUP", false)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Namespaces) == 0 {
		return fmt.Errorf("NAMESPACES is required")
	}

	if c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET_NAME is required")
	}

	if c.S3AccessKeyID == "" {
		return fmt.Errorf("S3_ACCESS_KEY_ID is required")
	}

	if c.S3SecretAccessKey == "" {
		return fmt.Errorf("S3_SECRET_ACCESS_KEY is required")
	}

	if c.RespawnProtectionHours < 0 {
		return fmt.Errorf("RESPAWN_PROTECTION_HOURS must be non-negative")
	}

	return nil
}

// Mode returns the run mode selected by configuration.
func (c *Config) Mode() string {
	if c.RestoreMode {
		return "restore"
	}
	return "backup"
}

// GetRespawnProtectionDuration returns the respawn protection as a Duration.
func (c *Config) GetRespawnProtectionDuration() time.Duration {
	return time.Duration(c.RespawnProtectionHours) * time.Hour
}

// splitNamespaces parses the comma-separated NAMESPACES value, trimming
// whitespace and dropping empty entries.
func splitNamespaces(value string) []string {
	var namespaces []string
	for _, ns := range strings.Split(value, ",") {
		if ns = strings.TrimSpace(ns); ns != "" {
			namespaces = append(namespaces, ns)
		}
	}
	return namespaces
}

// getEnvInt gets an integer from environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean from environment variable with a default value.
// Accepted values are those of strconv.ParseBool; anything else keeps the
// default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
