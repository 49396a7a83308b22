// Package backup coordinates backing up cluster secrets to object storage
// and restoring them.
package backup

import (
	"context"
)

// ApplyAction describes what ApplySecret did with a restored record.
type ApplyAction string

const (
	// ActionCreated means the secret did not exist and was created.
	ActionCreated ApplyAction = "created"
	// ActionUpdated means an existing secret was replaced.
	ActionUpdated ApplyAction = "updated"
	// ActionSkipped means an existing secret was left untouched.
	ActionSkipped ApplyAction = "skipped"
)

// Cluster defines the Kubernetes operations used by the orchestrator.
type Cluster interface {
	// ListSecrets returns all secrets in the namespace as backup records.
	ListSecrets(ctx context.Context, namespace string) ([]Record, error)

	// ApplySecret creates the secret described by record. When a secret
	// with the same name already exists it is replaced only if
	// forceOverwrite is set, otherwise it is left untouched. Returns the
	// action taken.
	ApplySecret(ctx context.Context, record *Record, forceOverwrite bool) (ApplyAction, error)
}
