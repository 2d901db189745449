package types

import "context"

// ProviderType represents the type of AI provider
type ProviderType string

const (
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeGemini    ProviderType = "gemini"
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeMock      ProviderType = "mock"

	// Virtual providers
	ProviderTypeFallback ProviderType = "fallback"
)

// ============================================================================
// Interface Segregation - Focused Provider Interfaces
// ============================================================================

// CoreProvider defines the essential identity methods that all providers must
// implement.
type CoreProvider interface {
	Name() string
	Type() ProviderType
	Description() string
}

// ChatProvider defines the completion capabilities consumed by the fallback
// strategy. Complete returns the full response; StreamComplete returns a lazy
// chunk stream. Both fail with a *ProviderError carrying a categorized code.
type ChatProvider interface {
	Complete(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (*Completion, error)
	StreamComplete(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (CompletionStream, error)
}

// AvailabilityProvider reports whether a provider is currently usable.
// IsAvailable must be cheap and side-effect free: it reflects local state
// (configuration, credentials present, circuit open) and must not perform
// network I/O.
type AvailabilityProvider interface {
	IsAvailable() bool
}

// ConfigurableProvider exposes a provider's default generation options.
// Callers overlay per-request options on top of these via MergeOptions.
type ConfigurableProvider interface {
	DefaultOptions() GenerateOptions
}

// ModelProvider defines methods for model discovery.
type ModelProvider interface {
	GetModels(ctx context.Context) ([]Model, error)
	GetDefaultModel() string
}

// ============================================================================
// Composite Provider Interface
// ============================================================================

// Provider represents a complete completion provider with all capabilities
// the fallback strategy relies on. Use the smaller interfaces when a client
// only needs a subset:
//   - CoreProvider for identity only
//   - ChatProvider for completion calls only
//   - AvailabilityProvider for health gating only
//   - ConfigurableProvider for default option lookup only
//   - ModelProvider for model discovery only
type Provider interface {
	CoreProvider
	ChatProvider
	AvailabilityProvider
	ConfigurableProvider
	ModelProvider
}

// Logger represents a logger interface
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}
