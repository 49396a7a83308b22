package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

var configKeys = []string{
	"NAMESPACES",
	"S3_BUCKET_NAME",
	"S3_BACKUP_DIR",
	"S3_REGION",
	"S3_ENDPOINT_URL",
	"S3_ACCESS_KEY_ID",
	"S3_SECRET_ACCESS_KEY",
	"RESTORE_MODE",
	"FORCE_OVERWRITE",
	"RESPAWN_PROTECTION_HOURS",
	"FORCE_BACKUP",
}

func TestLoad(t *testing.T) {
	// Save original env
	originalEnv := map[string]string{}
	for _, key := range configKeys {
		originalEnv[key] = os.Getenv(key)
	}
	defer func() {
		for k, v := range originalEnv {
			os.Setenv(k, v)
		}
	}()

	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "valid minimal config",
			env: map[string]string{
				"NAMESPACES":           "default",
				"S3_BUCKET_NAME":       "test-bucket",
				"S3_ACCESS_KEY_ID":     "test-key",
				"S3_SECRET_ACCESS_KEY": "test-secret",
			},
			wantErr: false,
		},
		{
			name: "valid config with custom endpoint",
			env: map[string]string{
				"NAMESPACES":           "default,kube-system",
				"S3_BUCKET_NAME":       "test-bucket",
				"S3_ENDPOINT_URL":      "https://minio.example.com",
				"S3_ACCESS_KEY_ID":     "test-key",
				"S3_SECRET_ACCESS_KEY": "test-secret",
			},
			wantErr: false,
		},
		{
			name: "missing NAMESPACES",
			env: map[string]string{
				"S3_BUCKET_NAME":       "test-bucket",
				"S3_ACCESS_KEY_ID":     "test-key",
				"S3_SECRET_ACCESS_KEY": "test-secret",
			},
			wantErr: true,
		},
		{
			name: "NAMESPACES with only separators",
			env: map[string]string{
				"NAMESPACES":           " , ,",
				"S3_BUCKET_NAME":       "test-bucket",
				"S3_ACCESS_KEY_ID":     "test-key",
				"S3_SECRET_ACCESS_KEY": "test-secret",
			},
			wantErr: true,
		},
		{
			name: "missing S3_BUCKET_NAME",
			env: map[string]string{
				"NAMESPACES":           "default",
				"S3_ACCESS_KEY_ID":     "test-key",
				"S3_SECRET_ACCESS_KEY": "test-secret",
			},
			wantErr: true,
		},
		{
			name: "missing S3_ACCESS_KEY_ID",
			env: map[string]string{
				"NAMESPACES":           "default",
				"S3_BUCKET_NAME":       "test-bucket",
				"S3_SECRET_ACCESS_KEY": "test-secret",
			},
			wantErr: true,
		},
		{
			name: "missing S3_SECRET_ACCESS_KEY",
			env: map[string]string{
				"NAMESPACES":       "default",
				"S3_BUCKET_NAME":   "test-bucket",
				"S3_ACCESS_KEY_ID": "test-key",
			},
			wantErr: true,
		},
		{
			name: "negative respawn protection",
			env: map[string]string{
				"NAMESPACES":               "default",
				"S3_BUCKET_NAME":           "test-bucket",
				"S3_ACCESS_KEY_ID":         "test-key",
				"S3_SECRET_ACCESS_KEY":     "test-secret",
				"RESPAWN_PROTECTION_HOURS": "-1",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range configKeys {
				os.Unsetenv(key)
			}
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	t.Setenv("NAMESPACES", "default")
	t.Setenv("S3_BUCKET_NAME", "test-bucket")
	t.Setenv("S3_ACCESS_KEY_ID", "test-key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.S3BackupDir != DefaultBackupDir {
		t.Errorf("S3BackupDir = %q, want %q", cfg.S3BackupDir, DefaultBackupDir)
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("S3Region = %q, want us-east-1", cfg.S3Region)
	}
	if cfg.RestoreMode {
		t.Error("RestoreMode should default to false")
	}
	if cfg.ForceOverwrite {
		t.Error("ForceOverwrite should default to false")
	}
	if cfg.RespawnProtectionHours != 0 {
		t.Errorf("RespawnProtectionHours = %d, want 0", cfg.RespawnProtectionHours)
	}
	if cfg.Mode() != "backup" {
		t.Errorf("Mode() = %q, want backup", cfg.Mode())
	}
}

func TestLoadNamespaceParsing(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "single namespace",
			value: "default",
			want:  []string{"default"},
		},
		{
			name:  "multiple namespaces",
			value: "default,kube-system,app",
			want:  []string{"default", "kube-system", "app"},
		},
		{
			name:  "whitespace and empty entries",
			value: " default , ,app, ",
			want:  []string{"default", "app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitNamespaces(tt.value); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitNamespaces(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "lowercase true", value: "true", want: true},
		{name: "uppercase TRUE", value: "TRUE", want: true},
		{name: "numeric 1", value: "1", want: true},
		{name: "lowercase false", value: "false", want: false},
		{name: "unparseable keeps default", value: "yes", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESTORE_MODE", tt.value)
			if got := getEnvBool("RESTORE_MODE", false); got != tt.want {
				t.Errorf("getEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetRespawnProtectionDuration(t *testing.T) {
	cfg := &Config{RespawnProtectionHours: 6}
	if got := cfg.GetRespawnProtectionDuration(); got != 6*time.Hour {
		t.Errorf("GetRespawnProtectionDuration() = %v, want 6h", got)
	}
}
