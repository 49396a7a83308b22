// Package metrics provides Prometheus metrics for the backup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunAttempts tracks backup and restore runs.
	RunAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secrets_backup_runs_total",
		Help: "Total number of backup and restore runs",
	}, []string{"mode", "status"})

	// RunDuration tracks the duration of whole runs.
	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "secrets_backup_run_duration_seconds",
		Help:    "Duration of backup and restore runs in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
	}, []string{"mode"})

	// SecretsProcessed tracks per-secret outcomes.
	SecretsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secrets_backup_secrets_total",
		Help: "Secrets processed, by mode and outcome",
	}, []string{"mode", "outcome"})

	// StorageOperations tracks object store operations.
	StorageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "secrets_backup_storage_operations_total",
		Help: "Total number of object store operations",
	}, []string{"operation", "status"})

	// RespawnBlocked tracks backup runs skipped by respawn protection.
	RespawnBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secrets_backup_respawn_blocked_total",
		Help: "Total number of backup runs blocked by respawn protection",
	})

	// LastSuccessTimestamp tracks when the last successful run finished.
	LastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "secrets_backup_last_success_timestamp",
		Help: "Unix timestamp of the last successful run",
	})

	// Info provides static information about the service.
	Info = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "secrets_backup_info",
		Help: "Information about the backup service",
	}, []string{"version"})
)

// RecordRun records a completed run with its status.
func RecordRun(mode string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	RunAttempts.WithLabelValues(mode, status).Inc()
}

// RecordSecret records a per-secret outcome.
func RecordSecret(mode, outcome string) {
	SecretsProcessed.WithLabelValues(mode, outcome).Inc()
}

// RecordStorageOperation records an object store operation with its status.
func RecordStorageOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	StorageOperations.WithLabelValues(operation, status).Inc()
}
