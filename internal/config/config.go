package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the process-wide, read-only configuration. It is built once at
// start-up and passed by pointer into every component.
type Config struct {
	AWS      AWSConfig      `yaml:"aws"`
	Faces    FacesConfig    `yaml:"faces"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"-"`
}

type AWSConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
	SessionToken    string `yaml:"-"`
	Endpoint        string `yaml:"-"` // S3-compatible endpoint override (MinIO, LocalStack)
	UsePathStyle    bool   `yaml:"-"`
}

// HasStaticCredentials reports whether an explicit key pair was supplied.
// Without one the AWS default credential chain is used.
func (c *AWSConfig) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// MaskedAccessKey returns the access key id with everything but the last
// four characters hidden, for log output.
func (c *AWSConfig) MaskedAccessKey() string {
	if len(c.AccessKeyID) <= 4 {
		return strings.Repeat("*", len(c.AccessKeyID))
	}
	return strings.Repeat("*", len(c.AccessKeyID)-4) + c.AccessKeyID[len(c.AccessKeyID)-4:]
}

type FacesConfig struct {
	SimilarityThreshold float32 `yaml:"similarity_threshold"` // percent, 0-100
	SearchMaxFaces      int32   `yaml:"search_max_faces"`
	ListPageSize        int32   `yaml:"list_page_size"` // page size hint for ListFaces
}

type StorageConfig struct {
	DefaultBucket string        `yaml:"default_bucket"`
	PresignTTL    time.Duration `yaml:"presign_ttl"`
	MaxImageBytes int           `yaml:"max_image_bytes"`
}

type DatabaseConfig struct {
	URL          string // postgres:// or mysql:// DSN for the user profile store (optional)
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads a positive float, falling back to defaultVal.
func envFloat(key string, defaultVal float32) float32 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil && f > 0 {
		return float32(f)
	}
	return defaultVal
}

// envDuration reads a positive Go duration ("90m", "5h"), falling back to defaultVal.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var defaults Config
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		AWS: AWSConfig{
			Region:          envString("AWS_REGION", defaults.AWS.Region),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Endpoint:        os.Getenv("AWS_ENDPOINT_URL"),
			UsePathStyle:    envBool("AWS_S3_USE_PATH_STYLE"),
		},
		Faces: FacesConfig{
			SimilarityThreshold: envFloat("FACE_SIMILARITY_THRESHOLD", defaults.Faces.SimilarityThreshold),
			SearchMaxFaces:      int32(envInt("FACE_SEARCH_MAX_FACES", int(defaults.Faces.SearchMaxFaces))),
			ListPageSize:        int32(envInt("FACE_LIST_PAGE_SIZE", int(defaults.Faces.ListPageSize))),
		},
		Storage: StorageConfig{
			DefaultBucket: envString("S3_DEFAULT_BUCKET", defaults.Storage.DefaultBucket),
			PresignTTL:    envDuration("S3_PRESIGN_TTL", defaults.Storage.PresignTTL),
			MaxImageBytes: envInt("IMAGE_MAX_BYTES", defaults.Storage.MaxImageBytes),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
	}
}
