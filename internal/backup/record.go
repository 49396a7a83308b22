package backup

import (
	"encoding/json"
	"fmt"
)

// ServiceAccountTokenType marks secrets managed by Kubernetes itself.
// Such secrets are never backed up.
const ServiceAccountTokenType = "kubernetes.io/service-account-token"

// RecordMetadata identifies a secret and carries the metadata needed to
// recreate it.
type RecordMetadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Record is one secret in its stored backup form. Identity is
// (namespace, name).
type Record struct {
	Metadata RecordMetadata    `json:"metadata"`
	Type     string            `json:"type"`
	Data     map[string][]byte `json:"data"`
}

// Marshal serializes the record into the stored backup format. Data values
// are base64-encoded strings and the document is indented with two spaces,
// matching objects written by earlier releases of the tool.
func (r *Record) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize secret %s/%s: %w",
			r.Metadata.Namespace, r.Metadata.Name, err)
	}
	return data, nil
}

// UnmarshalRecord parses a stored backup object.
func UnmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("malformed backup object: %w", err)
	}

	if r.Metadata.Name == "" || r.Metadata.Namespace == "" {
		return nil, fmt.Errorf("backup object is missing a secret name or namespace")
	}

	// Older backups omit the type for plain secrets
	if r.Type == "" {
		r.Type = "Opaque"
	}

	return &r, nil
}
