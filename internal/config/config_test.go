package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t,
		"AWS_REGION", "FACE_SIMILARITY_THRESHOLD", "FACE_SEARCH_MAX_FACES", "FACE_LIST_PAGE_SIZE",
		"S3_DEFAULT_BUCKET", "S3_PRESIGN_TTL", "IMAGE_MAX_BYTES",
	)

	cfg := Load()

	if cfg.AWS.Region != "us-west-2" {
		t.Errorf("expected default region us-west-2, got %q", cfg.AWS.Region)
	}
	if cfg.Faces.SimilarityThreshold != 70 {
		t.Errorf("expected default similarity threshold 70, got %v", cfg.Faces.SimilarityThreshold)
	}
	if cfg.Faces.SearchMaxFaces != 2 {
		t.Errorf("expected default search max faces 2, got %d", cfg.Faces.SearchMaxFaces)
	}
	if cfg.Faces.ListPageSize != 2 {
		t.Errorf("expected default list page size 2, got %d", cfg.Faces.ListPageSize)
	}
	if cfg.Storage.DefaultBucket != "test-collection-bucket" {
		t.Errorf("expected default bucket test-collection-bucket, got %q", cfg.Storage.DefaultBucket)
	}
	if cfg.Storage.PresignTTL != 5*time.Hour {
		t.Errorf("expected presign TTL 5h, got %v", cfg.Storage.PresignTTL)
	}
	if cfg.Storage.MaxImageBytes != 5*1024*1024 {
		t.Errorf("expected max image bytes 5MiB, got %d", cfg.Storage.MaxImageBytes)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("FACE_SIMILARITY_THRESHOLD", "85.5")
	t.Setenv("FACE_SEARCH_MAX_FACES", "10")
	t.Setenv("FACE_LIST_PAGE_SIZE", "50")
	t.Setenv("S3_DEFAULT_BUCKET", "faces-prod")
	t.Setenv("S3_PRESIGN_TTL", "15m")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:9000")
	t.Setenv("AWS_S3_USE_PATH_STYLE", "true")

	cfg := Load()

	if cfg.AWS.Region != "eu-west-1" {
		t.Errorf("expected region eu-west-1, got %q", cfg.AWS.Region)
	}
	if cfg.Faces.SimilarityThreshold != 85.5 {
		t.Errorf("expected threshold 85.5, got %v", cfg.Faces.SimilarityThreshold)
	}
	if cfg.Faces.SearchMaxFaces != 10 {
		t.Errorf("expected search max faces 10, got %d", cfg.Faces.SearchMaxFaces)
	}
	if cfg.Faces.ListPageSize != 50 {
		t.Errorf("expected list page size 50, got %d", cfg.Faces.ListPageSize)
	}
	if cfg.Storage.DefaultBucket != "faces-prod" {
		t.Errorf("expected bucket faces-prod, got %q", cfg.Storage.DefaultBucket)
	}
	if cfg.Storage.PresignTTL != 15*time.Minute {
		t.Errorf("expected presign TTL 15m, got %v", cfg.Storage.PresignTTL)
	}
	if cfg.AWS.Endpoint != "http://localhost:9000" {
		t.Errorf("expected endpoint override, got %q", cfg.AWS.Endpoint)
	}
	if !cfg.AWS.UsePathStyle {
		t.Error("expected path-style addressing to be enabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{"non-numeric threshold", "FACE_SIMILARITY_THRESHOLD", "high", func(c *Config) bool { return c.Faces.SimilarityThreshold == 70 }},
		{"negative threshold", "FACE_SIMILARITY_THRESHOLD", "-5", func(c *Config) bool { return c.Faces.SimilarityThreshold == 70 }},
		{"zero page size", "FACE_LIST_PAGE_SIZE", "0", func(c *Config) bool { return c.Faces.ListPageSize == 2 }},
		{"bad duration", "S3_PRESIGN_TTL", "five hours", func(c *Config) bool { return c.Storage.PresignTTL == 5*time.Hour }},
		{"negative duration", "S3_PRESIGN_TTL", "-1h", func(c *Config) bool { return c.Storage.PresignTTL == 5*time.Hour }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if cfg := Load(); !tt.check(cfg) {
				t.Errorf("%s=%q did not fall back to the default", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_DatabaseConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	clearEnv(t, "DATABASE_MAX_OPEN_CONNS", "DATABASE_MAX_IDLE_CONNS")

	cfg := Load()

	if cfg.Database.URL != "postgres://u:p@localhost/db" {
		t.Errorf("unexpected database URL %q", cfg.Database.URL)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("unexpected pool sizes %d/%d", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
}

func TestHasStaticCredentials(t *testing.T) {
	tests := []struct {
		name   string
		cfg    AWSConfig
		expect bool
	}{
		{"both set", AWSConfig{AccessKeyID: "AKIA", SecretAccessKey: "secret"}, true},
		{"only key", AWSConfig{AccessKeyID: "AKIA"}, false},
		{"only secret", AWSConfig{SecretAccessKey: "secret"}, false},
		{"none", AWSConfig{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.HasStaticCredentials(); got != tt.expect {
				t.Errorf("HasStaticCredentials() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestMaskedAccessKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"AKIAEXAMPLE1234", "***********1234"},
		{"ABCD", "****"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := AWSConfig{AccessKeyID: tt.key}
			if got := cfg.MaskedAccessKey(); got != tt.expected {
				t.Errorf("MaskedAccessKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}
