package types

import (
	"context"
	"time"
)

// MetricsCollector receives metric events emitted by the fallback strategy
// and by providers. Implementations must be safe for concurrent use.
type MetricsCollector interface {
	RecordEvent(ctx context.Context, event MetricEvent) error
}

// MetricEvent represents a single metrics event from a provider.
// Events are immutable after creation.
type MetricEvent struct {
	// Type of event (request, success, error, provider_switch)
	Type MetricEventType `json:"type"`

	// Provider identification
	ProviderName string       `json:"provider_name"`
	ProviderType ProviderType `json:"provider_type"`

	// Model identification (may be empty for non-model events)
	ModelID string `json:"model_id,omitempty"`

	// Timestamp when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// Request/response details
	Latency time.Duration `json:"latency,omitempty"`

	// Error details (only for error events)
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Fallback chain context
	ChainID       string `json:"chain_id,omitempty"`       // Correlates events of one execution
	FromProvider  string `json:"from_provider,omitempty"`  // Provider switched from
	ToProvider    string `json:"to_provider,omitempty"`    // Provider switched to
	SwitchReason  string `json:"switch_reason,omitempty"`  // Why switch occurred
	AttemptNumber int    `json:"attempt_number,omitempty"` // Which attempt in fallback chain

	// Additional metadata
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// MetricEventType categorizes different types of metrics events.
type MetricEventType string

const (
	// MetricEventRequest indicates a request was initiated
	MetricEventRequest MetricEventType = "request"

	// MetricEventSuccess indicates a request completed successfully
	MetricEventSuccess MetricEventType = "success"

	// MetricEventError indicates a request failed with an error
	MetricEventError MetricEventType = "error"

	// MetricEventProviderSwitch indicates a switch between providers in a
	// fallback chain
	MetricEventProviderSwitch MetricEventType = "provider_switch"
)

// String returns the string representation of the event type.
func (t MetricEventType) String() string {
	return string(t)
}

// IsError returns true if this event type represents an error condition.
func (t MetricEventType) IsError() bool {
	return t == MetricEventError
}
