// Package utils provides utility functions for the backup service.
package utils

import (
	"fmt"
	"strings"
)

// backupExt is the extension given to every stored backup object.
const backupExt = ".json"

// BackupKey returns the storage key for one secret backup, relative to the
// configured backup prefix: <namespace>/<name>.json
func BackupKey(namespace, name string) string {
	return namespace + "/" + name + backupExt
}

// NamespacePrefix returns the key prefix covering one namespace's backups.
func NamespacePrefix(namespace string) string {
	return namespace + "/"
}

// ParseBackupKey extracts the namespace and secret name from a backup key.
// The last two path segments are used, so keys returned with or without the
// backup prefix both parse.
func ParseBackupKey(key string) (namespace, name string, err error) {
	trimmed := strings.TrimSuffix(key, backupExt)
	if trimmed == key {
		return "", "", fmt.Errorf("backup key %q does not end in %s", key, backupExt)
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("backup key %q does not match <namespace>/<name>%s", key, backupExt)
	}

	namespace = parts[len(parts)-2]
	name = parts[len(parts)-1]
	if namespace == "" || name == "" {
		return "", "", fmt.Errorf("backup key %q has an empty namespace or name", key)
	}

	return namespace, name, nil
}
