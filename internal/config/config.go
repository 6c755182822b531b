package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabaseURL string // SRVENV_DATABASE_URL (required)
	HTTPAddr    string // SRVENV_HTTP_ADDR (default ":8080")
	NATSURL     string // SRVENV_NATS_URL (optional, empty = no events)
	AuthToken   string // SRVENV_AUTH_TOKEN (optional, empty = auth disabled)

	// Environment configuration sources. At least one of EnvDir, EnvFile, or
	// the S3 settings must be set; sources are merged in that order.
	EnvDir  string // SRVENV_ENV_DIR (directory of .ini/.cfg/.conf files)
	EnvFile string // SRVENV_ENV_FILE (single file)

	EnvS3Bucket   string // SRVENV_ENV_S3_BUCKET (enables S3 when set)
	EnvS3Key      string // SRVENV_ENV_S3_KEY (default "srvenv/env.ini")
	EnvS3Region   string // SRVENV_ENV_S3_REGION (default "us-east-1")
	EnvS3Endpoint string // SRVENV_ENV_S3_ENDPOINT (custom endpoint for MinIO)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:   os.Getenv("SRVENV_DATABASE_URL"),
		HTTPAddr:      envOrDefault("SRVENV_HTTP_ADDR", ":8080"),
		NATSURL:       os.Getenv("SRVENV_NATS_URL"),
		AuthToken:     os.Getenv("SRVENV_AUTH_TOKEN"),
		EnvDir:        os.Getenv("SRVENV_ENV_DIR"),
		EnvFile:       os.Getenv("SRVENV_ENV_FILE"),
		EnvS3Bucket:   os.Getenv("SRVENV_ENV_S3_BUCKET"),
		EnvS3Key:      envOrDefault("SRVENV_ENV_S3_KEY", "srvenv/env.ini"),
		EnvS3Region:   envOrDefault("SRVENV_ENV_S3_REGION", "us-east-1"),
		EnvS3Endpoint: os.Getenv("SRVENV_ENV_S3_ENDPOINT"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("SRVENV_DATABASE_URL is required")
	}
	if c.EnvDir == "" && c.EnvFile == "" && c.EnvS3Bucket == "" {
		return nil, fmt.Errorf("one of SRVENV_ENV_DIR, SRVENV_ENV_FILE, or SRVENV_ENV_S3_BUCKET is required")
	}
	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
