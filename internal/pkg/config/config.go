package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

// Config is the typed view on the environment used by the server
type Config struct {
	AppHost     string `validate:"required"`
	AppPort     int    `validate:"min=1,max=65535"`
	AppEnv      string `validate:"oneof=dev test prod"`
	AppLanguage string `validate:"oneof=auto fa en de"`

	MaxUploadMB     int           `validate:"min=1,max=512"`
	DownloadTTL     time.Duration `validate:"gte=1s"`
	SessionTTL      time.Duration `validate:"gte=1m"`
	CompressTimeout time.Duration `validate:"gte=0"`
	SweepInterval   time.Duration `validate:"gte=1s"`
	StatsRetention  time.Duration `validate:"gte=0"`

	DBDriver string `validate:"oneof=sqlite mysql none"`

	MetricsUser         string
	MetricsPasswordHash string `validate:"required_with=MetricsUser"`
}

var validate = validator.New()

// Load reads the configuration from env and validates it
func Load() (*Config, error) {
	cfg := &Config{
		AppHost:             env.GetEnv("APP_HOST", "0.0.0.0"),
		AppPort:             env.GetInt("APP_PORT", 4000),
		AppEnv:              env.GetEnv("APP_ENV", "prod"),
		AppLanguage:         env.GetEnv("APP_LANGUAGE", "auto"),
		MaxUploadMB:         env.GetInt("MAX_UPLOAD_MB", 25),
		DownloadTTL:         env.GetDuration("DOWNLOAD_TTL", 30*time.Minute),
		SessionTTL:          env.GetDuration("SESSION_TTL", time.Hour),
		CompressTimeout:     env.GetDuration("COMPRESS_TIMEOUT", 2*time.Minute),
		SweepInterval:       env.GetDuration("SWEEP_INTERVAL", 5*time.Minute),
		StatsRetention:      env.GetDuration("STATS_RETENTION", 90*24*time.Hour),
		DBDriver:            env.GetEnv("DB_DRIVER", "sqlite"),
		MetricsUser:         env.GetEnv("METRICS_USER", ""),
		MetricsPasswordHash: env.GetEnv("METRICS_PASSWORD_HASH", ""),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.AppHost, c.AppPort)
}

// BodyLimit is the Fiber body limit in bytes
func (c *Config) BodyLimit() int {
	return c.MaxUploadMB * 1024 * 1024
}

// MetricsEnabled reports whether /metrics gets mounted
func (c *Config) MetricsEnabled() bool {
	return c.MetricsUser != "" && c.MetricsPasswordHash != ""
}
