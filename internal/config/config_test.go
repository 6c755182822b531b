package config

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SRVENV_DATABASE_URL", "SRVENV_HTTP_ADDR", "SRVENV_NATS_URL",
		"SRVENV_AUTH_TOKEN", "SRVENV_ENV_DIR", "SRVENV_ENV_FILE",
		"SRVENV_ENV_S3_BUCKET", "SRVENV_ENV_S3_KEY", "SRVENV_ENV_S3_REGION",
		"SRVENV_ENV_S3_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("SRVENV_ENV_FILE", "/etc/srvenv/env.ini")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SRVENV_DATABASE_URL") {
		t.Errorf("Load err = %v, want missing database URL error", err)
	}
}

func TestLoad_RequiresEnvSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("SRVENV_DATABASE_URL", "postgres://localhost/srvenv")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SRVENV_ENV_DIR") {
		t.Errorf("Load err = %v, want missing env source error", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SRVENV_DATABASE_URL", "postgres://localhost/srvenv")
	t.Setenv("SRVENV_ENV_S3_BUCKET", "configs")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", c.HTTPAddr)
	}
	if c.EnvS3Key != "srvenv/env.ini" {
		t.Errorf("EnvS3Key = %q", c.EnvS3Key)
	}
	if c.EnvS3Region != "us-east-1" {
		t.Errorf("EnvS3Region = %q", c.EnvS3Region)
	}
	if c.NATSURL != "" || c.AuthToken != "" {
		t.Errorf("optional values not empty: %q %q", c.NATSURL, c.AuthToken)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SRVENV_DATABASE_URL", "postgres://db.internal/srvenv")
	t.Setenv("SRVENV_HTTP_ADDR", ":9090")
	t.Setenv("SRVENV_ENV_DIR", "/etc/srvenv/env.d")
	t.Setenv("SRVENV_ENV_FILE", "/etc/srvenv/override.ini")
	t.Setenv("SRVENV_NATS_URL", "nats://localhost:4222")
	t.Setenv("SRVENV_AUTH_TOKEN", "s3cret")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.EnvDir != "/etc/srvenv/env.d" || c.EnvFile != "/etc/srvenv/override.ini" {
		t.Errorf("env sources = %q %q", c.EnvDir, c.EnvFile)
	}
	if c.NATSURL != "nats://localhost:4222" || c.AuthToken != "s3cret" {
		t.Errorf("optional values = %q %q", c.NATSURL, c.AuthToken)
	}
}
