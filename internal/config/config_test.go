// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/linkbio")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 6, cfg.Links.CodeLength)
	assert.Equal(t, 10, cfg.Links.MaxCodeAttempts)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Cloudinary.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("BASE_URL", "https://sho.rt/")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "https://sho.rt/abc123", cfg.Links.ShortURL("abc123"))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_YAMLFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("links:\n  code_length: 8\nlog:\n  format: text\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Links.CodeLength)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing database url",
			env:     map[string]string{"REDIS_URL": "redis://localhost"},
			wantErr: "DATABASE_URL is required",
		},
		{
			name: "code length out of range",
			env: map[string]string{
				"DATABASE_URL":      "postgres://localhost/x",
				"REDIS_URL":         "redis://localhost",
				"SHORT_CODE_LENGTH": "2",
			},
			wantErr: "links.code_length",
		},
		{
			name: "kafka enabled without brokers",
			env: map[string]string{
				"DATABASE_URL":  "postgres://localhost/x",
				"REDIS_URL":     "redis://localhost",
				"KAFKA_ENABLED": "true",
			},
			wantErr: "kafka.brokers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv("REDIS_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
