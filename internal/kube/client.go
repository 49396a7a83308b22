// Package kube provides the Kubernetes client used to read and recreate
// secrets.
package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/imedwei/k8s-secrets-backup/internal/backup"
)

// Client wraps the Kubernetes API operations needed for secret backup and
// restore. It implements backup.Cluster.
type Client struct {
	clientset kubernetes.Interface
}

// NewClient creates a client from the in-cluster service account, falling
// back to the standard kubeconfig loading rules when not running inside a
// cluster.
func NewClient() (*Client, error) {
	restCfg, err := rest.InClusterConfig()
	if err != nil {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		restCfg, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			loadingRules, &clientcmd.ConfigOverrides{},
		).ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to build Kubernetes config: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return &Client{clientset: clientset}, nil
}

// NewClientForClientset wraps an existing clientset. Used by tests.
func NewClientForClientset(clientset kubernetes.Interface) *Client {
	return &Client{clientset: clientset}
}

// ListSecrets implements backup.Cluster.
func (c *Client) ListSecrets(ctx context.Context, namespace string) ([]backup.Record, error) {
	list, err := c.clientset.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets in namespace %s: %w", namespace, err)
	}

	records := make([]backup.Record, 0, len(list.Items))
	for i := range list.Items {
		records = append(records, recordFromSecret(&list.Items[i]))
	}

	return records, nil
}

// ApplySecret implements backup.Cluster.
func (c *Client) ApplySecret(ctx context.Context, record *backup.Record, forceOverwrite bool) (backup.ApplyAction, error) {
	namespace := record.Metadata.Namespace
	name := record.Metadata.Name
	secrets := c.clientset.CoreV1().Secrets(namespace)

	_, err := secrets.Get(ctx, name, metav1.GetOptions{})
	switch {
	case err == nil:
		if !forceOverwrite {
			return backup.ActionSkipped, nil
		}
		if _, err := secrets.Update(ctx, secretFromRecord(record), metav1.UpdateOptions{}); err != nil {
			return "", fmt.Errorf("failed to update secret %s/%s: %w", namespace, name, err)
		}
		return backup.ActionUpdated, nil

	case apierrors.IsNotFound(err):
		if _, err := secrets.Create(ctx, secretFromRecord(record), metav1.CreateOptions{}); err != nil {
			return "", fmt.Errorf("failed to create secret %s/%s: %w", namespace, name, err)
		}
		return backup.ActionCreated, nil

	default:
		return "", fmt.Errorf("failed to get secret %s/%s: %w", namespace, name, err)
	}
}

func recordFromSecret(secret *corev1.Secret) backup.Record {
	return backup.Record{
		Metadata: backup.RecordMetadata{
			Name:        secret.Name,
			Namespace:   secret.Namespace,
			Labels:      secret.Labels,
			Annotations: secret.Annotations,
		},
		Type: string(secret.Type),
		Data: secret.Data,
	}
}

func secretFromRecord(record *backup.Record) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:        record.Metadata.Name,
			Namespace:   record.Metadata.Namespace,
			Labels:      record.Metadata.Labels,
			Annotations: record.Metadata.Annotations,
		},
		Type: corev1.SecretType(record.Type),
		Data: record.Data,
	}
}
