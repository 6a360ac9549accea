package s3backup

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

// Config holds the archive bucket settings
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // S3 compatible services only
	Enabled         bool
}

// LoadConfig reads S3_* from the environment. Credentials and bucket are
// only required when S3_BACKUP_ENABLED is true.
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-west-001"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetBool("S3_BACKUP_ENABLED", false),
	}

	if !config.Enabled {
		return config, nil
	}
	switch {
	case config.AccessKeyID == "":
		return nil, errors.New("S3_ACCESS_KEY_ID is required when S3 backup is enabled")
	case config.SecretAccessKey == "":
		return nil, errors.New("S3_SECRET_ACCESS_KEY is required when S3 backup is enabled")
	case config.BucketName == "":
		return nil, errors.New("S3_BUCKET_NAME is required when S3 backup is enabled")
	}
	return config, nil
}

func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled
}

// ObjectKey places a result under archive/YYYY/MM/<token>/<name>
func ObjectKey(at time.Time, token, name string) string {
	return fmt.Sprintf("archive/%04d/%02d/%s/%s", at.Year(), int(at.Month()), token, path.Base(name))
}
