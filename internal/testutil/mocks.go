// Package testutil provides shared testing utilities, mocks, and fixtures
// for use across the fallback-kit test suite.
package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cecil-the-coder/fallback-kit/pkg/types"
)

// MockProvider is a mock Provider implementation with configurable behavior.
// It allows tests to simulate success, categorized failures, unavailability,
// and slow responses.
type MockProvider struct {
	mu sync.RWMutex

	// Configuration
	name         string
	providerType types.ProviderType
	available    bool
	defaultModel string
	defaultOpts  types.GenerateOptions

	// Behavior control
	completeError error
	streamError   error
	latency       time.Duration

	// Mock responses
	completion *types.Completion

	// Call tracking
	completeCalled  int
	streamCalled    int
	availableCalled int
}

// NewMockProvider creates a new mock provider that succeeds by default.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		name:         name,
		providerType: types.ProviderTypeMock,
		available:    true,
		defaultModel: "mock-model",
		completion: &types.Completion{
			ID:      "mock-completion",
			Model:   "mock-model",
			Content: fmt.Sprintf("response from %s", name),
		},
	}
}

// WithError makes Complete and StreamComplete fail with the given error.
func (m *MockProvider) WithError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeError = err
	m.streamError = err
	return m
}

// WithAvailable controls the availability pre-check result.
func (m *MockProvider) WithAvailable(available bool) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
	return m
}

// WithLatency makes each invocation take at least d, respecting context
// cancellation.
func (m *MockProvider) WithLatency(d time.Duration) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
	return m
}

// WithDefaultOptions sets the options returned by DefaultOptions.
func (m *MockProvider) WithDefaultOptions(opts types.GenerateOptions) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultOpts = opts
	return m
}

// WithCompletion sets the completion returned on success.
func (m *MockProvider) WithCompletion(completion *types.Completion) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completion = completion
	return m
}

func (m *MockProvider) Name() string             { return m.name }
func (m *MockProvider) Type() types.ProviderType { return m.providerType }
func (m *MockProvider) Description() string {
	return fmt.Sprintf("Mock %s provider for testing", m.name)
}

func (m *MockProvider) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availableCalled++
	return m.available
}

func (m *MockProvider) DefaultOptions() types.GenerateOptions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultOpts
}

func (m *MockProvider) GetDefaultModel() string {
	return m.defaultModel
}

func (m *MockProvider) GetModels(ctx context.Context) ([]types.Model, error) {
	return []types.Model{
		{ID: m.defaultModel, Name: "Mock Model", Provider: m.providerType},
	}, nil
}

func (m *MockProvider) Complete(ctx context.Context, messages []types.ChatMessage, opts types.GenerateOptions) (*types.Completion, error) {
	m.mu.Lock()
	m.completeCalled++
	err := m.completeError
	latency := m.latency
	completion := m.completion
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return completion, nil
}

func (m *MockProvider) StreamComplete(ctx context.Context, messages []types.ChatMessage, opts types.GenerateOptions) (types.CompletionStream, error) {
	m.mu.Lock()
	m.streamCalled++
	err := m.streamError
	latency := m.latency
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &MockStream{content: fmt.Sprintf("stream from %s", m.name)}, nil
}

// CompleteCalls returns how many times Complete was invoked.
func (m *MockProvider) CompleteCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.completeCalled
}

// StreamCalls returns how many times StreamComplete was invoked.
func (m *MockProvider) StreamCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.streamCalled
}

// MockStream is a single-chunk completion stream.
type MockStream struct {
	content string
	read    bool
	closed  bool
}

func (s *MockStream) Next() (types.CompletionChunk, error) {
	if s.read {
		return types.CompletionChunk{Done: true}, io.EOF
	}
	s.read = true
	return types.CompletionChunk{Content: s.content}, nil
}

func (s *MockStream) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *MockStream) Closed() bool { return s.closed }
