// Package ratelimit provides client-side rate limiting for completion
// providers. It wraps a provider with a token-bucket limiter so that
// requests beyond the budget fail fast with a rate_limit error the fallback
// chain can classify, instead of being rejected by the remote API.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/cecil-the-coder/fallback-kit/pkg/types"
)

// LimitedProvider decorates a provider with a client-side rate limiter.
// When no token is available the call fails immediately with a
// *types.ProviderError carrying ErrCodeRateLimit; it never blocks waiting
// for a token, since the fallback chain should move on to the next provider
// instead of queueing.
type LimitedProvider struct {
	types.Provider
	limiter *rate.Limiter
}

// New wraps provider with a limiter allowing requestsPerMinute requests and
// a burst of the same size.
func New(provider types.Provider, requestsPerMinute int) *LimitedProvider {
	return &LimitedProvider{
		Provider: provider,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
	}
}

// NewWithLimiter wraps provider with a caller-supplied limiter.
func NewWithLimiter(provider types.Provider, limiter *rate.Limiter) *LimitedProvider {
	return &LimitedProvider{Provider: provider, limiter: limiter}
}

func (p *LimitedProvider) Complete(ctx context.Context, messages []types.ChatMessage, opts types.GenerateOptions) (*types.Completion, error) {
	if !p.limiter.Allow() {
		return nil, p.rateLimitError("complete")
	}
	return p.Provider.Complete(ctx, messages, opts)
}

func (p *LimitedProvider) StreamComplete(ctx context.Context, messages []types.ChatMessage, opts types.GenerateOptions) (types.CompletionStream, error) {
	if !p.limiter.Allow() {
		return nil, p.rateLimitError("stream_complete")
	}
	return p.Provider.StreamComplete(ctx, messages, opts)
}

func (p *LimitedProvider) rateLimitError(operation string) *types.ProviderError {
	reservation := p.limiter.Reserve()
	retryAfter := int(reservation.Delay().Round(time.Second) / time.Second)
	reservation.Cancel()
	return types.NewRateLimitError(p.Type(), retryAfter).WithOperation(operation)
}
