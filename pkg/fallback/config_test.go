package fallback

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ModeSequential, config.Mode)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, []RetryCategory{RetryAll}, config.RetryOn)
	assert.Zero(t, config.TimeoutPerProviderMS)
	assert.False(t, config.LogFailures)
	require.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid round robin", func(c *Config) { c.Mode = ModeRoundRobin }, ""},
		{"valid priority", func(c *Config) { c.Mode = ModePriority }, ""},
		{"missing mode", func(c *Config) { c.Mode = "" }, "mode is required"},
		{"unknown mode", func(c *Config) { c.Mode = "random" }, "unknown mode"},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }, "max_retries must be positive"},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, "max_retries must be positive"},
		{"unknown category", func(c *Config) { c.RetryOn = []RetryCategory{"flaky"} }, "unknown retry_on category"},
		{"negative timeout", func(c *Config) { c.TimeoutPerProviderMS = -1 }, "timeout_per_provider_ms must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseConfig_YAML(t *testing.T) {
	yamlConfig := `
mode: round_robin
max_retries: 5
retry_on:
  - rate_limit
  - timeout
timeout_per_provider_ms: 30000
log_failures: true
`

	config, err := ParseConfig([]byte(yamlConfig))
	require.NoError(t, err)

	assert.Equal(t, ModeRoundRobin, config.Mode)
	assert.Equal(t, 5, config.MaxRetries)
	assert.Equal(t, []RetryCategory{RetryRateLimit, RetryTimeout}, config.RetryOn)
	assert.Equal(t, 30*time.Second, config.PerProviderTimeout())
	assert.True(t, config.LogFailures)
}

func TestParseConfig_AppliesDefaults(t *testing.T) {
	config, err := ParseConfig([]byte(`max_retries: 2`))
	require.NoError(t, err)

	assert.Equal(t, ModeSequential, config.Mode)
	assert.Equal(t, 2, config.MaxRetries)
	assert.Equal(t, []RetryCategory{RetryAll}, config.RetryOn)
}

func TestParseConfig_InvalidYAML(t *testing.T) {
	_, err := ParseConfig([]byte("mode: [broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse fallback config")
}

func TestParseConfig_InvalidValues(t *testing.T) {
	_, err := ParseConfig([]byte("mode: lottery"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: priority\nmax_retries: 4\n"), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ModePriority, config.Mode)
	assert.Equal(t, 4, config.MaxRetries)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fallback config")
}

func TestRetriesOn(t *testing.T) {
	config := &Config{RetryOn: []RetryCategory{RetryTimeout}}
	assert.True(t, config.retriesOn(RetryTimeout))
	assert.False(t, config.retriesOn(RetryRateLimit))

	config = &Config{RetryOn: []RetryCategory{RetryAll}}
	assert.True(t, config.retriesOn(RetryRateLimit))
	assert.True(t, config.retriesOn(RetryProviderError))
}
