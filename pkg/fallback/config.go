package fallback

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects how the provider order for one execution is computed
type Mode string

const (
	// ModeSequential tries providers in configured order, starting at the
	// first provider on every execution
	ModeSequential Mode = "sequential"

	// ModeRoundRobin rotates the starting provider across executions
	ModeRoundRobin Mode = "round_robin"

	// ModePriority behaves identically to ModeSequential: the configured
	// list order is the priority order
	ModePriority Mode = "priority"
)

// RetryCategory names an error category that permits falling through to the
// next provider in the chain
type RetryCategory string

const (
	RetryRateLimit     RetryCategory = "rate_limit"
	RetryTimeout       RetryCategory = "timeout"
	RetryProviderError RetryCategory = "provider_error"
	RetryAll           RetryCategory = "all"
)

// Config represents configuration for the fallback strategy.
// A Config is immutable once handed to a strategy.
type Config struct {
	// Mode selects the provider ordering for each execution
	Mode Mode `yaml:"mode"`

	// MaxRetries caps how many providers one execution may try
	MaxRetries int `yaml:"max_retries"`

	// RetryOn lists the error categories that permit moving to the next
	// provider. RetryAll enables every retryable category. Authentication
	// failures are never retried regardless of this list.
	RetryOn []RetryCategory `yaml:"retry_on"`

	// TimeoutPerProviderMS bounds each individual provider invocation, in
	// milliseconds. Zero means no per-provider deadline.
	TimeoutPerProviderMS int `yaml:"timeout_per_provider_ms"`

	// LogFailures enables a structured log entry per failed attempt
	LogFailures bool `yaml:"log_failures"`
}

// DefaultConfig returns a config with sensible defaults: sequential mode,
// three attempts, every category retryable.
func DefaultConfig() *Config {
	return &Config{
		Mode:       ModeSequential,
		MaxRetries: 3,
		RetryOn:    []RetryCategory{RetryAll},
	}
}

// Validate checks the config for values the strategy cannot work with
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSequential, ModeRoundRobin, ModePriority:
	case "":
		return fmt.Errorf("mode is required")
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive, got %d", c.MaxRetries)
	}

	for _, category := range c.RetryOn {
		switch category {
		case RetryRateLimit, RetryTimeout, RetryProviderError, RetryAll:
		default:
			return fmt.Errorf("unknown retry_on category %q", category)
		}
	}

	if c.TimeoutPerProviderMS < 0 {
		return fmt.Errorf("timeout_per_provider_ms must not be negative")
	}

	return nil
}

// PerProviderTimeout returns the per-provider deadline as a duration
func (c *Config) PerProviderTimeout() time.Duration {
	return time.Duration(c.TimeoutPerProviderMS) * time.Millisecond
}

// retriesOn reports whether the config enables retry for a category
func (c *Config) retriesOn(category RetryCategory) bool {
	for _, enabled := range c.RetryOn {
		if enabled == RetryAll || enabled == category {
			return true
		}
	}
	return false
}

// clone returns a copy so the strategy holds its own immutable snapshot
func (c *Config) clone() *Config {
	copied := *c
	copied.RetryOn = append([]RetryCategory(nil), c.RetryOn...)
	return &copied
}

// ParseConfig parses a YAML config document and applies defaults for
// unset fields
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse fallback config: %w", err)
	}
	if len(config.RetryOn) == 0 {
		config.RetryOn = []RetryCategory{RetryAll}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig reads and parses a YAML config file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback config: %w", err)
	}
	return ParseConfig(data)
}
