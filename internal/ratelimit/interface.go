// Package ratelimit provides respawn protection for scheduled backup runs.
package ratelimit

import (
	"time"
)

// RateLimiter decides whether a backup run may proceed.
type RateLimiter interface {
	// ShouldBackup determines if a backup should proceed based on the last
	// backup time. The string return value carries a human-readable reason.
	ShouldBackup(lastBackup time.Time) (bool, string)

	// GetMinInterval returns the minimum time interval between backups.
	GetMinInterval() time.Duration
}

// Config holds configuration for rate limiting.
type Config struct {
	// MinInterval is the minimum time between backups.
	MinInterval time.Duration

	// ForceBackup overrides rate limiting when true.
	ForceBackup bool
}
