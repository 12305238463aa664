package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ORGANIZATION", "REPOSITORY", "GITHUB_TOKEN", "STATS_RETRY_DELAY", "STATS_MAX_RETRIES", "STORAGE_TYPE", "OUTPUT_PATH", "HTTP_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.StatsRetryDelay)
	assert.Equal(t, 10, cfg.StatsMaxRetries)
	assert.Equal(t, "none", cfg.StorageType)
	assert.Equal(t, "stats.json", cfg.OutputPath)
	assert.False(t, cfg.HasCredential())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ORGANIZATION", "acme")
	t.Setenv("REPOSITORY", "rocket")
	t.Setenv("GITHUB_TOKEN", "ghp_x")
	t.Setenv("STATS_RETRY_DELAY", "250ms")
	t.Setenv("STATS_MAX_RETRIES", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Organization)
	assert.Equal(t, "rocket", cfg.Repository)
	assert.Equal(t, 250*time.Millisecond, cfg.StatsRetryDelay)
	assert.Equal(t, 4, cfg.StatsMaxRetries)
	assert.True(t, cfg.HasCredential())
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad delay", key: "STATS_RETRY_DELAY", value: "soon"},
		{name: "negative retries", key: "STATS_MAX_RETRIES", value: "-1"},
		{name: "bad timeout", key: "HTTP_TIMEOUT", value: "1 minute"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.key, cfgErr.Field)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectField string
	}{
		{name: "none storage", cfg: Config{StorageType: "none", OutputPath: "stats.json"}},
		{name: "sqlite storage", cfg: Config{StorageType: "sqlite", OutputPath: "stats.json"}},
		{name: "unknown storage", cfg: Config{StorageType: "mongo", OutputPath: "stats.json"}, expectField: "STORAGE_TYPE"},
		{name: "postgres without url", cfg: Config{StorageType: "postgres", OutputPath: "stats.json"}, expectField: "POSTGRES_URL"},
		{name: "empty output", cfg: Config{StorageType: "none"}, expectField: "OUTPUT_PATH"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.expectField, cfgErr.Field)
		})
	}
}

func TestConfig_ValidateTarget(t *testing.T) {
	assert.NoError(t, (&Config{Organization: "acme", Repository: "rocket"}).ValidateTarget())

	err := (&Config{Repository: "rocket"}).ValidateTarget()
	assert.True(t, apperrors.IsMissingRequiredContext(err))

	err = (&Config{Organization: "acme"}).ValidateTarget()
	assert.True(t, apperrors.IsMissingRequiredContext(err))
}
