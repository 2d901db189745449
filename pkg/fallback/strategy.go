package fallback

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/cecil-the-coder/fallback-kit/pkg/types"
)

// FailureCallback is invoked synchronously after every failed attempt
// (never on success). A panicking callback is recovered and logged; it can
// never abort the chain.
type FailureCallback func(providerName string, attempt Attempt)

// FallbackStrategy tries providers in order until one succeeds.
//
// The provider list and config are set at construction time or through the
// registry methods and persist across executions. Each call to Execute runs
// one strictly sequential fallback chain; attempts are never raced.
type FallbackStrategy struct {
	name             string
	config           *Config
	providers        []types.Provider
	cursor           atomic.Uint64
	onFailure        FailureCallback
	logger           types.Logger
	metricsCollector types.MetricsCollector
	mu               sync.RWMutex
}

// New creates a fallback strategy. A nil config uses DefaultConfig.
func New(name string, config *Config) (*FallbackStrategy, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fallback config: %w", err)
	}
	return &FallbackStrategy{
		name:   name,
		config: config.clone(),
	}, nil
}

func (f *FallbackStrategy) Name() string             { return f.name }
func (f *FallbackStrategy) Type() types.ProviderType { return types.ProviderTypeFallback }
func (f *FallbackStrategy) Description() string      { return "Tries providers in order until one succeeds" }

// Config returns a copy of the strategy's configuration
func (f *FallbackStrategy) Config() Config {
	return *f.config.clone()
}

// SetMetricsCollector attaches a collector for per-attempt events
func (f *FallbackStrategy) SetMetricsCollector(collector types.MetricsCollector) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metricsCollector = collector
}

// SetLogger attaches a logger used when LogFailures is enabled
func (f *FallbackStrategy) SetLogger(logger types.Logger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = logger
}

// SetOnFailure attaches the failure callback
func (f *FallbackStrategy) SetOnFailure(callback FailureCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onFailure = callback
}

// AddProvider appends a provider to the chain
func (f *FallbackStrategy) AddProvider(provider types.Provider) error {
	if provider == nil {
		return fmt.Errorf("provider must not be nil")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providers = append(f.providers, provider)
	return nil
}

// RemoveProvider removes the first provider with the given name and reports
// whether a removal occurred
func (f *FallbackStrategy) RemoveProvider(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, provider := range f.providers {
		if provider.Name() == name {
			f.providers = append(f.providers[:i], f.providers[i+1:]...)
			return true
		}
	}
	return false
}

// SetProviders replaces the entire provider list and resets the round-robin
// cursor to the first provider
func (f *FallbackStrategy) SetProviders(providers []types.Provider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providers = append([]types.Provider(nil), providers...)
	f.cursor.Store(0)
}

// ProviderNames returns the names of all configured providers in chain order
func (f *FallbackStrategy) ProviderNames() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, len(f.providers))
	for i, provider := range f.providers {
		names[i] = provider.Name()
	}
	return names
}

// AvailableProviders returns the names of providers that currently report
// themselves available. Each provider is asked live; nothing is cached.
func (f *FallbackStrategy) AvailableProviders() []string {
	f.mu.RLock()
	providers := f.providers
	f.mu.RUnlock()

	names := make([]string, 0, len(providers))
	for _, provider := range providers {
		if provider.IsAvailable() {
			names = append(names, provider.Name())
		}
	}
	return names
}

// orderFor computes the provider sequence for one execution.
//
// Sequential and priority modes return the configured list order. Round-robin
// rotates the starting index and advances the cursor as a side effect of
// computing the order, whether or not the sequence is fully consumed. The
// cursor is an atomic counter, so overlapping executions on one strategy
// each observe a distinct starting offset.
func (f *FallbackStrategy) orderFor() []types.Provider {
	f.mu.RLock()
	providers := append([]types.Provider(nil), f.providers...)
	f.mu.RUnlock()

	if len(providers) == 0 {
		return nil
	}

	switch f.config.Mode {
	case ModeRoundRobin:
		start := int((f.cursor.Add(1) - 1) % uint64(len(providers)))
		ordered := make([]types.Provider, 0, len(providers))
		ordered = append(ordered, providers[start:]...)
		ordered = append(ordered, providers[:start]...)
		return ordered
	default:
		// sequential and priority are identical: the configured order is
		// the priority order
		return providers
	}
}

// logf writes through the attached logger, falling back to the standard
// library logger
func (f *FallbackStrategy) logf(level, msg string, fields ...interface{}) {
	f.mu.RLock()
	logger := f.logger
	f.mu.RUnlock()

	if logger == nil {
		log.Printf("[%s] fallback %s: %s %v", level, f.name, msg, fields)
		return
	}
	switch level {
	case "warn":
		logger.Warn(msg, fields...)
	case "error":
		logger.Error(msg, fields...)
	default:
		logger.Info(msg, fields...)
	}
}
