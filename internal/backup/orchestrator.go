package backup

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/imedwei/k8s-secrets-backup/internal/config"
	"github.com/imedwei/k8s-secrets-backup/internal/metrics"
	"github.com/imedwei/k8s-secrets-backup/internal/ratelimit"
	"github.com/imedwei/k8s-secrets-backup/internal/storage"
	"github.com/imedwei/k8s-secrets-backup/internal/utils"
)

// Orchestrator coordinates the backup and restore procedures.
type Orchestrator struct {
	config      *config.Config
	storage     storage.Storage
	cluster     Cluster
	rateLimiter ratelimit.RateLimiter
	logger      *slog.Logger
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(cfg *config.Config, storage storage.Storage, cluster Cluster, logger *slog.Logger) *Orchestrator {
	rateLimiter := ratelimit.NewTimeBasedLimiter(ratelimit.Config{
		MinInterval: cfg.GetRespawnProtectionDuration(),
		ForceBackup: cfg.ForceBackup,
	})

	return &Orchestrator{
		config:      cfg,
		storage:     storage,
		cluster:     cluster,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Run executes the mode selected by configuration.
func (o *Orchestrator) Run(ctx context.Context) error {
	mode := o.config.Mode()
	start := time.Now()

	var err error
	if o.config.RestoreMode {
		err = o.Restore(ctx)
	} else {
		err = o.Backup(ctx)
	}

	metrics.RunDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.RecordRun(mode, err == nil)
	if err == nil {
		metrics.LastSuccessTimestamp.Set(float64(time.Now().Unix()))
	}

	return err
}

// Backup lists the secrets of every configured namespace and uploads one
// serialized object per secret.
func (o *Orchestrator) Backup(ctx context.Context) error {
	o.logger.Info("Starting backup", "namespaces", o.config.Namespaces)

	if o.config.RespawnProtectionHours > 0 {
		lastBackupTime, err := o.storage.GetLastBackupTime(ctx)
		if err != nil {
			o.logger.Warn("Failed to get last backup time, proceeding with backup", "error", err)
		} else {
			shouldBackup, reason := o.rateLimiter.ShouldBackup(lastBackupTime)
			if !shouldBackup {
				o.logger.Info("Skipping backup run", "reason", reason)
				metrics.RespawnBlocked.Inc()
				return nil
			}
			o.logger.Info("Respawn protection passed", "reason", reason)
		}
	}

	var uploaded, unchanged, failed int
	for _, namespace := range o.config.Namespaces {
		o.logger.Info("Backing up secrets in namespace", "namespace", namespace)

		records, err := o.cluster.ListSecrets(ctx, namespace)
		if err != nil {
			// The whole namespace is skipped; remaining namespaces
			// still run.
			o.logger.Error("Failed to list secrets", "namespace", namespace, "error", err)
			failed++
			continue
		}

		for i := range records {
			record := &records[i]
			if record.Type == ServiceAccountTokenType {
				continue
			}

			didUpload, err := o.backupSecret(ctx, record)
			switch {
			case err != nil:
				o.logger.Error("Failed to back up secret",
					"namespace", namespace,
					"name", record.Metadata.Name,
					"error", err,
				)
				metrics.RecordSecret("backup", "failed")
				failed++
			case didUpload:
				metrics.RecordSecret("backup", "uploaded")
				uploaded++
			default:
				metrics.RecordSecret("backup", "unchanged")
				unchanged++
			}
		}
	}

	o.logger.Info("Backup finished",
		"uploaded", uploaded,
		"unchanged", unchanged,
		"failed", failed,
	)

	if failed > 0 {
		return fmt.Errorf("backup finished with %d failures", failed)
	}
	return nil
}

// backupSecret serializes one secret and uploads it unless the stored
// object already has identical content. Reports whether an upload happened.
func (o *Orchestrator) backupSecret(ctx context.Context, record *Record) (bool, error) {
	payload, err := record.Marshal()
	if err != nil {
		return false, err
	}

	key := utils.BackupKey(record.Metadata.Namespace, record.Metadata.Name)

	existing, err := o.storage.Download(ctx, key)
	switch {
	case err == nil:
		if sha256.Sum256(existing) == sha256.Sum256(payload) {
			o.logger.Info("Skipping unchanged secret", "key", key)
			return false, nil
		}
		o.logger.Info("Updating changed secret backup", "key", key)
	case errors.Is(err, storage.ErrNotFound):
		o.logger.Info("Backing up new secret", "key", key)
	default:
		return false, fmt.Errorf("failed to check existing backup: %w", err)
	}

	metadata := map[string]string{
		"backup-timestamp": time.Now().UTC().Format(time.RFC3339),
		"secret-type":      record.Type,
		"backup-tool":      "k8s-secrets-backup",
	}

	if err := o.storage.Upload(ctx, key, bytes.NewReader(payload), metadata); err != nil {
		metrics.RecordStorageOperation("upload", false)
		return false, err
	}
	metrics.RecordStorageOperation("upload", true)

	return true, nil
}

// Restore downloads every stored object for the configured namespaces and
// recreates the secrets, honoring the force-overwrite flag.
func (o *Orchestrator) Restore(ctx context.Context) error {
	o.logger.Info("Starting restore",
		"namespaces", o.config.Namespaces,
		"force_overwrite", o.config.ForceOverwrite,
	)

	var restored, skipped, failed int
	for _, namespace := range o.config.Namespaces {
		o.logger.Info("Restoring secrets in namespace", "namespace", namespace)

		objects, err := o.storage.List(ctx, utils.NamespacePrefix(namespace))
		if err != nil {
			o.logger.Error("Failed to list backups", "namespace", namespace, "error", err)
			metrics.RecordStorageOperation("list", false)
			failed++
			continue
		}
		metrics.RecordStorageOperation("list", true)

		for _, obj := range objects {
			action, err := o.restoreObject(ctx, obj.Key)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				// Listed but gone before download; nothing to restore.
				o.logger.Warn("Backup object disappeared, skipping", "key", obj.Key)
			case err != nil:
				o.logger.Error("Failed to restore secret", "key", obj.Key, "error", err)
				metrics.RecordSecret("restore", "failed")
				failed++
			case action == ActionSkipped:
				o.logger.Info("Secret exists, skipping (force overwrite disabled)", "key", obj.Key)
				metrics.RecordSecret("restore", "skipped")
				skipped++
			default:
				o.logger.Info("Restored secret", "key", obj.Key, "action", string(action))
				metrics.RecordSecret("restore", string(action))
				restored++
			}
		}
	}

	o.logger.Info("Restore finished",
		"restored", restored,
		"skipped", skipped,
		"failed", failed,
	)

	if failed > 0 {
		return fmt.Errorf("restore finished with %d failures", failed)
	}
	return nil
}

// restoreObject downloads, decodes, and applies one stored backup object.
func (o *Orchestrator) restoreObject(ctx context.Context, key string) (ApplyAction, error) {
	namespace, name, err := utils.ParseBackupKey(key)
	if err != nil {
		return "", err
	}

	data, err := o.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", err
		}
		metrics.RecordStorageOperation("download", false)
		return "", err
	}
	metrics.RecordStorageOperation("download", true)

	record, err := UnmarshalRecord(data)
	if err != nil {
		return "", err
	}

	// The key, not the object body, decides where the secret lands. This
	// keeps a mislabeled object from escaping its namespace path.
	record.Metadata.Namespace = namespace
	record.Metadata.Name = name

	return o.cluster.ApplySecret(ctx, record, o.config.ForceOverwrite)
}
