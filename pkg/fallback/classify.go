package fallback

import (
	"context"
	"errors"

	"github.com/cecil-the-coder/fallback-kit/pkg/types"
)

// ErrorCategory is the closed set of failure categories recorded on attempts
type ErrorCategory string

const (
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryRateLimit      ErrorCategory = "rate_limit"
	CategoryTimeout        ErrorCategory = "timeout"
	CategoryProviderError  ErrorCategory = "provider_error"
	CategoryUnknown        ErrorCategory = "unknown"

	// CategoryUnavailable marks the structural pre-check outcome: the
	// provider reported itself unavailable before any invocation. It is
	// never produced by classify.
	CategoryUnavailable ErrorCategory = "unavailable"
)

// classify maps a provider failure into an ErrorCategory. It is the single
// place the error taxonomy is interpreted, so retry decisions stay uniform
// across the engine.
//
// Classification order: authentication, rate limit, timeout, then any other
// provider-originated failure. Errors that are not *types.ProviderError and
// not a context deadline are unknown.
func classify(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var provErr *types.ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Code {
		case types.ErrCodeAuthentication:
			return CategoryAuthentication
		case types.ErrCodeRateLimit:
			return CategoryRateLimit
		case types.ErrCodeTimeout:
			return CategoryTimeout
		default:
			return CategoryProviderError
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	return CategoryUnknown
}

// shouldRetry decides whether a failed attempt with the given category
// permits moving on to the next provider.
//
// Authentication failures indicate a misconfiguration rather than a
// transient fault, so they halt the chain even under RetryAll. Unknown
// failures are never retried.
func (c *Config) shouldRetry(category ErrorCategory) bool {
	switch category {
	case CategoryAuthentication, CategoryUnknown:
		return false
	case CategoryRateLimit:
		return c.retriesOn(RetryRateLimit)
	case CategoryTimeout:
		return c.retriesOn(RetryTimeout)
	case CategoryProviderError:
		return c.retriesOn(RetryProviderError)
	}
	return false
}
