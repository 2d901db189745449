package fallback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cecil-the-coder/fallback-kit/pkg/types"
)

// Attempt records one provider invocation within a fallback chain. Providers
// skipped because they reported themselves unavailable still consume a slot
// and produce an attempt with CategoryUnavailable.
type Attempt struct {
	ProviderName  string        `json:"provider_name"`
	Success       bool          `json:"success"`
	Error         string        `json:"error,omitempty"`
	ErrorCategory ErrorCategory `json:"error_category,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// FallbackResult aggregates the attempts and final outcome of one execution.
//
// Invariants: AllFailed == (Response == nil); when Response is non-nil,
// exactly the last attempt has Success == true and all prior attempts have
// Success == false.
type FallbackResult struct {
	ChainID            string            `json:"chain_id"`
	Response           *types.Completion `json:"response,omitempty"`
	SuccessfulProvider string            `json:"successful_provider,omitempty"`
	Attempts           []Attempt         `json:"attempts"`
	TotalAttempts      int               `json:"total_attempts"`
	AllFailed          bool              `json:"all_failed"`
}

// Execute runs one fallback chain over the configured providers.
//
// Individual provider failures are never returned to the caller: every
// attempt is absorbed into the result's Attempts list and the caller
// inspects AllFailed to decide what to surface. The chain stops early on a
// non-retryable failure category, on success, or when the sequence computed
// for this execution is exhausted.
func (f *FallbackStrategy) Execute(ctx context.Context, messages []types.ChatMessage, opts types.GenerateOptions) *FallbackResult {
	f.mu.RLock()
	collector := f.metricsCollector
	f.mu.RUnlock()

	result := &FallbackResult{ChainID: uuid.New().String()}

	sequence := f.orderFor()
	if len(sequence) > f.config.MaxRetries {
		sequence = sequence[:f.config.MaxRetries]
	}

	if collector != nil {
		_ = collector.RecordEvent(ctx, types.MetricEvent{
			Type:         types.MetricEventRequest,
			ProviderName: f.name,
			ProviderType: f.Type(),
			ModelID:      opts.Model,
			Timestamp:    time.Now(),
			ChainID:      result.ChainID,
		})
	}

	var previousProvider string

	for i, provider := range sequence {
		if !provider.IsAvailable() {
			// Unavailability consumes a slot but is never classified:
			// the chain always continues regardless of retry_on.
			attempt := Attempt{
				ProviderName:  provider.Name(),
				Error:         "not available",
				ErrorCategory: CategoryUnavailable,
			}
			result.Attempts = append(result.Attempts, attempt)
			f.recordSwitch(ctx, collector, result.ChainID, previousProvider, provider.Name(), i, 0, "unavailable", attempt.Error, opts.Model)
			if f.config.LogFailures {
				f.logf("warn", "provider not available",
					"provider", provider.Name(), "attempt", i+1)
			}
			previousProvider = provider.Name()
			continue
		}

		merged := types.MergeOptions(provider.DefaultOptions(), opts)

		invokeCtx := ctx
		cancel := func() {}
		if perProvider := f.config.PerProviderTimeout(); perProvider > 0 {
			invokeCtx, cancel = context.WithTimeout(ctx, perProvider)
		}

		start := time.Now()
		completion, err := provider.Complete(invokeCtx, messages, merged)
		duration := time.Since(start)
		cancel()

		if err == nil {
			result.Attempts = append(result.Attempts, Attempt{
				ProviderName: provider.Name(),
				Success:      true,
				Duration:     duration,
			})
			result.Response = completion
			result.SuccessfulProvider = provider.Name()
			result.TotalAttempts = len(result.Attempts)

			if collector != nil {
				if i > 0 {
					_ = collector.RecordEvent(ctx, types.MetricEvent{
						Type:          types.MetricEventProviderSwitch,
						ProviderName:  f.name,
						ProviderType:  f.Type(),
						ModelID:       merged.Model,
						Timestamp:     time.Now(),
						ChainID:       result.ChainID,
						FromProvider:  previousProvider,
						ToProvider:    provider.Name(),
						SwitchReason:  "fallback_success",
						AttemptNumber: i + 1,
						Latency:       duration,
					})
				}
				_ = collector.RecordEvent(ctx, types.MetricEvent{
					Type:         types.MetricEventSuccess,
					ProviderName: f.name,
					ProviderType: f.Type(),
					ModelID:      merged.Model,
					Timestamp:    time.Now(),
					ChainID:      result.ChainID,
					Latency:      duration,
				})
			}
			return result
		}

		category := classify(err)
		attempt := Attempt{
			ProviderName:  provider.Name(),
			Error:         err.Error(),
			ErrorCategory: category,
			Duration:      duration,
		}
		result.Attempts = append(result.Attempts, attempt)

		f.notifyFailure(attempt)
		f.recordSwitch(ctx, collector, result.ChainID, previousProvider, provider.Name(), i, duration, "fallback_attempt", err.Error(), merged.Model)
		if f.config.LogFailures {
			f.logf("warn", "provider attempt failed",
				"provider", provider.Name(), "attempt", i+1,
				"category", string(category), "error", err.Error(),
				"duration", duration)
		}

		if !f.config.shouldRetry(category) {
			break
		}
		previousProvider = provider.Name()
	}

	result.AllFailed = true
	result.TotalAttempts = len(result.Attempts)

	if collector != nil {
		errorMsg := "no providers available"
		if n := len(result.Attempts); n > 0 {
			errorMsg = fmt.Sprintf("all providers failed, last error: %s", result.Attempts[n-1].Error)
		}
		_ = collector.RecordEvent(ctx, types.MetricEvent{
			Type:          types.MetricEventError,
			ProviderName:  f.name,
			ProviderType:  f.Type(),
			ModelID:       opts.Model,
			Timestamp:     time.Now(),
			ChainID:       result.ChainID,
			ErrorMessage:  errorMsg,
			ErrorType:     "fallback_all_failed",
			AttemptNumber: len(result.Attempts),
		})
	}

	return result
}

// ExecuteWithTimeout runs Execute under a single whole-chain deadline.
//
// The deadline is layered above the per-provider timeouts: an individual
// provider timeout only ends that attempt, while the whole-chain deadline
// cancels everything that remains. When timeout is zero the default is
// the per-provider timeout multiplied by the configured provider count; if that
// is also zero the chain runs without a deadline.
func (f *FallbackStrategy) ExecuteWithTimeout(ctx context.Context, messages []types.ChatMessage, opts types.GenerateOptions, timeout time.Duration) (*FallbackResult, error) {
	if timeout <= 0 {
		f.mu.RLock()
		count := len(f.providers)
		f.mu.RUnlock()
		timeout = f.config.PerProviderTimeout() * time.Duration(count)
	}
	if timeout <= 0 {
		return f.Execute(ctx, messages, opts), nil
	}

	chainCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan *FallbackResult, 1)
	go func() {
		done <- f.Execute(chainCtx, messages, opts)
	}()

	select {
	case result := <-done:
		return result, nil
	case <-chainCtx.Done():
		return nil, types.NewTimeoutError(f.Type(),
			fmt.Sprintf("fallback chain %q exceeded %s deadline", f.name, timeout)).
			WithOperation("execute_with_timeout").
			WithOriginalErr(chainCtx.Err())
	}
}

// StreamExecute tries each provider's streaming completion in chain order
// until one returns a stream. The returned stream annotates every chunk with
// the provider that produced it. Retry decisions follow the same category
// rules as Execute; the attempt trail is reported through metrics and logs
// only, since the stream is handed to the caller before it completes.
func (f *FallbackStrategy) StreamExecute(ctx context.Context, messages []types.ChatMessage, opts types.GenerateOptions) (types.CompletionStream, error) {
	f.mu.RLock()
	collector := f.metricsCollector
	f.mu.RUnlock()

	sequence := f.orderFor()
	if len(sequence) > f.config.MaxRetries {
		sequence = sequence[:f.config.MaxRetries]
	}

	chainID := uuid.New().String()
	var lastErr error
	var previousProvider string

	for i, provider := range sequence {
		if !provider.IsAvailable() {
			f.recordSwitch(ctx, collector, chainID, previousProvider, provider.Name(), i, 0, "unavailable", "not available", opts.Model)
			previousProvider = provider.Name()
			continue
		}

		merged := types.MergeOptions(provider.DefaultOptions(), opts)
		merged.Stream = true

		start := time.Now()
		stream, err := provider.StreamComplete(ctx, messages, merged)
		duration := time.Since(start)

		if err == nil {
			return &fallbackStream{
				inner:         stream,
				providerName:  provider.Name(),
				providerIndex: i,
			}, nil
		}

		category := classify(err)
		f.notifyFailure(Attempt{
			ProviderName:  provider.Name(),
			Error:         err.Error(),
			ErrorCategory: category,
			Duration:      duration,
		})
		f.recordSwitch(ctx, collector, chainID, previousProvider, provider.Name(), i, duration, "fallback_attempt", err.Error(), merged.Model)
		if f.config.LogFailures {
			f.logf("warn", "provider stream attempt failed",
				"provider", provider.Name(), "attempt", i+1,
				"category", string(category), "error", err.Error())
		}

		lastErr = err
		if !f.config.shouldRetry(category) {
			break
		}
		previousProvider = provider.Name()
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
	}
	return nil, fmt.Errorf("no providers available")
}

// notifyFailure invokes the failure callback for one failed attempt. A
// panicking callback is recovered and logged so it can never abort the chain.
func (f *FallbackStrategy) notifyFailure(attempt Attempt) {
	f.mu.RLock()
	callback := f.onFailure
	f.mu.RUnlock()

	if callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			f.logf("error", "failure callback panicked",
				"provider", attempt.ProviderName, "panic", fmt.Sprint(r))
		}
	}()
	callback(attempt.ProviderName, attempt)
}

// recordSwitch emits a provider_switch event for a failed or skipped attempt
func (f *FallbackStrategy) recordSwitch(ctx context.Context, collector types.MetricsCollector, chainID, from, to string, index int, latency time.Duration, reason, errMsg, model string) {
	if collector == nil {
		return
	}
	_ = collector.RecordEvent(ctx, types.MetricEvent{
		Type:          types.MetricEventProviderSwitch,
		ProviderName:  f.name,
		ProviderType:  f.Type(),
		ModelID:       model,
		Timestamp:     time.Now(),
		ChainID:       chainID,
		FromProvider:  from,
		ToProvider:    to,
		SwitchReason:  reason,
		AttemptNumber: index + 1,
		ErrorMessage:  errMsg,
		Latency:       latency,
	})
}

// fallbackStream annotates chunks with the provider that produced them
type fallbackStream struct {
	inner         types.CompletionStream
	providerName  string
	providerIndex int
}

func (s *fallbackStream) Next() (types.CompletionChunk, error) {
	chunk, err := s.inner.Next()
	if chunk.Metadata == nil {
		chunk.Metadata = make(map[string]interface{})
	}
	chunk.Metadata["fallback_provider"] = s.providerName
	chunk.Metadata["fallback_index"] = s.providerIndex
	return chunk, err
}

func (s *fallbackStream) Close() error {
	return s.inner.Close()
}
