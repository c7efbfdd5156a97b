package objectstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mlforge-labs/mlforge-go/internal/platform/env"
)

// Config carries the connection settings for the S3-compatible endpoint
// that backs the pipeline storage bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// ConfigFromEnv builds a Config from MLFORGE_S3_* environment variables.
func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("MLFORGE_S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:  env.String("MLFORGE_S3_ENDPOINT", "storage.googleapis.com"),
		AccessKey: env.String("MLFORGE_S3_ACCESS_KEY", ""),
		SecretKey: env.String("MLFORGE_S3_SECRET_KEY", ""),
		Region:    env.String("MLFORGE_S3_REGION", "us-central1"),
		UseSSL:    useSSL,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	return nil
}
