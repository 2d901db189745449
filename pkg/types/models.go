// Package types defines the core types and interfaces for the fallback kit.
// It includes the completion request/response formats, the provider contracts
// consumed by the fallback strategy, and the shared error taxonomy.
package types

import "time"

// Model describes a model exposed by a provider
type Model struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Provider          ProviderType `json:"provider"`
	Description       string       `json:"description"`
	MaxTokens         int          `json:"max_tokens"`
	SupportsStreaming bool         `json:"supports_streaming"`
	Capabilities      []string     `json:"capabilities"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatMessage represents a chat message
type ChatMessage struct {
	Role     string                 `json:"role"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Completion represents a full (non-streaming) completion response
type Completion struct {
	ID       string                 `json:"id"`
	Model    string                 `json:"model"`
	Created  int64                  `json:"created"`
	Choices  []CompletionChoice     `json:"choices"`
	Usage    Usage                  `json:"usage"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// CompletionChoice represents a choice in a completion response
type CompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// CompletionStream represents a streaming completion response
type CompletionStream interface {
	Next() (CompletionChunk, error)
	Close() error
}

// CompletionChunk represents a chunk of a streaming response
type CompletionChunk struct {
	ID       string                 `json:"id"`
	Model    string                 `json:"model"`
	Created  int64                  `json:"created"`
	Content  string                 `json:"content"`
	Usage    Usage                  `json:"usage"`
	Done     bool                   `json:"done"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// GenerateOptions represents options for generating a completion
type GenerateOptions struct {
	Model            string                 `json:"model,omitempty"`
	MaxTokens        int                    `json:"max_tokens,omitempty"`
	Temperature      float64                `json:"temperature,omitempty"`
	TopP             float64                `json:"top_p,omitempty"`
	FrequencyPenalty float64                `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64                `json:"presence_penalty,omitempty"`
	Stop             []string               `json:"stop,omitempty"`
	Stream           bool                   `json:"stream"`
	Timeout          time.Duration          `json:"timeout,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// MergeOptions overlays override on top of base field by field.
// Zero values in override fall through to base, so a caller can supply
// a partial override of a provider's default options. The inputs are
// not mutated.
func MergeOptions(base, override GenerateOptions) GenerateOptions {
	merged := base

	if override.Model != "" {
		merged.Model = override.Model
	}
	if override.MaxTokens != 0 {
		merged.MaxTokens = override.MaxTokens
	}
	if override.Temperature != 0 {
		merged.Temperature = override.Temperature
	}
	if override.TopP != 0 {
		merged.TopP = override.TopP
	}
	if override.FrequencyPenalty != 0 {
		merged.FrequencyPenalty = override.FrequencyPenalty
	}
	if override.PresencePenalty != 0 {
		merged.PresencePenalty = override.PresencePenalty
	}
	if len(override.Stop) > 0 {
		merged.Stop = append([]string(nil), override.Stop...)
	}
	if override.Stream {
		merged.Stream = true
	}
	if override.Timeout != 0 {
		merged.Timeout = override.Timeout
	}
	if len(override.Metadata) > 0 {
		metadata := make(map[string]interface{}, len(base.Metadata)+len(override.Metadata))
		for k, v := range base.Metadata {
			metadata[k] = v
		}
		for k, v := range override.Metadata {
			metadata[k] = v
		}
		merged.Metadata = metadata
	}

	return merged
}
