package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backend selectors. The backend is chosen once at process startup;
// there is no per-request dispatch.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Environment is the runtime environment the process was started in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment resolves the runtime environment. A CI runner announces
// itself through the CI variable; everything else comes from ENV, falling
// back to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch os.Getenv("ENV") {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether the process runs in production.
func IsProduction() bool {
	return GetEnvironment() == Production
}

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Storage backend: memory or postgres
	StorageBackend string
	// SeedDemoData loads the demo catalog at startup (memory backend only)
	SeedDemoData bool

	// Database configuration (postgres backend)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration; an empty host disables rate limiting
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// S3 image storage; an empty bucket disables image uploads
	S3Bucket  string
	AWSRegion string
}

// LoadConfig builds a Config from environment variables with development
// defaults, then validates it for the current environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost:     envOr("SERVER_HOST", "0.0.0.0"),
		ServerPort:     envOr("SERVER_PORT", "8080"),
		StorageBackend: strings.ToLower(envOr("STORAGE_BACKEND", BackendMemory)),
		SeedDemoData:   envBool("SEED_DEMO_DATA", true),
		DBHost:         envOr("DB_HOST", "localhost"),
		DBPort:         envOr("DB_PORT", "5432"),
		DBUser:         envOr("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         envOr("DB_NAME", "recipebook"),
		DBSSLMode:      envOr("DB_SSL_MODE", "disable"),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      envOr("REDIS_PORT", "6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		RedisURL:       os.Getenv("REDIS_URL"),
		S3Bucket:       os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:      os.Getenv("AWS_REGION"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %s or %s)",
			c.StorageBackend, BackendMemory, BackendPostgres)
	}

	if !IsProduction() {
		return nil
	}

	var missing []string
	if c.StorageBackend == BackendPostgres && c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.RedisHost != "" && c.RedisPassword == "" && c.RedisURL == "" {
		missing = append(missing, "REDIS_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required in production: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RedisEnabled reports whether a redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != "" || c.RedisURL != ""
}

// ImagesEnabled reports whether S3 image storage is configured.
func (c *Config) ImagesEnabled() bool {
	return c.S3Bucket != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
