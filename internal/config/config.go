package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
)

// Config holds the application configuration
type Config struct {
	// Collection target
	Organization string
	Repository   string

	// GitHub
	GitHubToken     string `masq:"secret"`
	GitHubAPIURL    string
	HTTPTimeout     time.Duration
	StatsRetryDelay time.Duration
	StatsMaxRetries int

	// Output
	OutputPath string

	// Storage
	StorageType string // "none", "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string `masq:"secret"`

	// API Server
	APIPort string
	APIHost string

	// CLI
	APIEndpoint string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	retryDelay, err := getDuration("STATS_RETRY_DELAY", 3*time.Second)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := getDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxRetries, err := getInt("STATS_MAX_RETRIES", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		Organization:    getEnv("ORGANIZATION", ""),
		Repository:      getEnv("REPOSITORY", ""),
		GitHubToken:     getEnv("GITHUB_TOKEN", ""),
		GitHubAPIURL:    getEnv("GITHUB_API_URL", "https://api.github.com/"),
		HTTPTimeout:     httpTimeout,
		StatsRetryDelay: retryDelay,
		StatsMaxRetries: maxRetries,
		OutputPath:      getEnv("OUTPUT_PATH", "stats.json"),
		StorageType:     getEnv("STORAGE_TYPE", "none"),
		SQLitePath:      getEnv("SQLITE_PATH", "./snapshots.db"),
		PostgresURL:     getEnv("POSTGRES_URL", ""),
		APIPort:         getEnv("API_PORT", "8080"),
		APIHost:         getEnv("API_HOST", "localhost"),
		APIEndpoint:     getEnv("API_ENDPOINT", "http://localhost:8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		LogOutput:       getEnv("LOG_OUTPUT", "stderr"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, &ConfigError{Field: key, Message: "must be a non-negative duration such as 3s"}
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, &ConfigError{Field: key, Message: "must be a non-negative integer"}
	}
	return n, nil
}

// HasCredential reports whether gated sections can be collected
func (c *Config) HasCredential() bool {
	return c.GitHubToken != ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.StorageType {
	case "none", "sqlite", "postgres":
	default:
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be 'none', 'sqlite' or 'postgres'"}
	}
	if c.StorageType == "postgres" && c.PostgresURL == "" {
		return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
	}
	if c.OutputPath == "" {
		return &ConfigError{Field: "OUTPUT_PATH", Message: "output path must not be empty"}
	}
	return nil
}

// ValidateTarget checks that the organization/repository pair is present.
// It runs before any network activity.
func (c *Config) ValidateTarget() error {
	if c.Organization == "" {
		return apperrors.NewMissingRequiredContextError("organization")
	}
	if c.Repository == "" {
		return apperrors.NewMissingRequiredContextError("repository")
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
