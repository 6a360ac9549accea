package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

func withEnv(t *testing.T, values map[string]string) {
	t.Helper()
	env.Env = values
	t.Cleanup(func() { env.Env = nil })
}

func TestLoadDefaults(t *testing.T) {
	withEnv(t, map[string]string{})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:4000", cfg.Addr())
	assert.Equal(t, 25, cfg.MaxUploadMB)
	assert.Equal(t, 25*1024*1024, cfg.BodyLimit())
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Minute, cfg.DownloadTTL)
	assert.Equal(t, "auto", cfg.AppLanguage)
	assert.False(t, cfg.MetricsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	withEnv(t, map[string]string{
		"APP_PORT":              "8080",
		"APP_ENV":               "dev",
		"APP_LANGUAGE":          "en",
		"MAX_UPLOAD_MB":         "5",
		"DB_DRIVER":             "none",
		"METRICS_USER":          "ops",
		"METRICS_PASSWORD_HASH": "$2a$10$abc",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.AppPort)
	assert.Equal(t, 5*1024*1024, cfg.BodyLimit())
	assert.True(t, cfg.MetricsEnabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"bad env":           {"APP_ENV": "staging"},
		"bad language":      {"APP_LANGUAGE": "jp"},
		"bad driver":        {"DB_DRIVER": "postgres"},
		"port out of range": {"APP_PORT": "70000"},
		"user without hash": {"METRICS_USER": "ops"},
	}

	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			withEnv(t, values)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
