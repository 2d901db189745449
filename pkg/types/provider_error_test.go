package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderError_Error(t *testing.T) {
	err := NewProviderError(ProviderTypeOpenAI, ErrCodeServerError, "internal error")
	assert.Equal(t, "[openai] internal error (code=server_error)", err.Error())

	withStatus := err.WithStatusCode(500)
	assert.Equal(t, "[openai] internal error (status=500, code=server_error)", withStatus.Error())
}

func TestProviderError_Unwrap(t *testing.T) {
	original := errors.New("connection reset")
	err := NewNetworkError(ProviderTypeAnthropic, "request failed").WithOriginalErr(original)

	assert.ErrorIs(t, err, original)

	wrapped := fmt.Errorf("complete: %w", err)
	var provErr *ProviderError
	require.ErrorAs(t, wrapped, &provErr)
	assert.Equal(t, ErrCodeNetwork, provErr.Code)
}

func TestProviderError_IsRetryable(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeRateLimit, true},
		{ErrCodeServerError, true},
		{ErrCodeTimeout, true},
		{ErrCodeNetwork, true},
		{ErrCodeAuthentication, false},
		{ErrCodeInvalidRequest, false},
		{ErrCodeNotFound, false},
		{ErrCodeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewProviderError(ProviderTypeOpenAI, tt.code, "test")
			assert.Equal(t, tt.want, err.IsRetryable())
		})
	}
}

func TestProviderError_Constructors(t *testing.T) {
	auth := NewAuthError(ProviderTypeGemini, "invalid key")
	assert.Equal(t, ErrCodeAuthentication, auth.Code)

	rateLimit := NewRateLimitError(ProviderTypeOpenAI, 42)
	assert.Equal(t, ErrCodeRateLimit, rateLimit.Code)
	assert.Equal(t, 42, rateLimit.RetryAfter)

	server := NewServerError(ProviderTypeAnthropic, 503, "overloaded")
	assert.Equal(t, ErrCodeServerError, server.Code)
	assert.Equal(t, 503, server.StatusCode)

	timeout := NewTimeoutError(ProviderTypeOllama, "no response")
	assert.Equal(t, ErrCodeTimeout, timeout.Code)
}

func TestProviderError_Chaining(t *testing.T) {
	err := NewServerError(ProviderTypeOpenAI, 502, "bad gateway").
		WithOperation("complete").
		WithRequestID("req-123")

	assert.Equal(t, "complete", err.Operation)
	assert.Equal(t, "req-123", err.RequestID)
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusUnauthorized, ErrCodeAuthentication},
		{http.StatusForbidden, ErrCodeAuthentication},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusRequestTimeout, ErrCodeTimeout},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusInternalServerError, ErrCodeServerError},
		{http.StatusServiceUnavailable, ErrCodeServerError},
		{http.StatusTeapot, ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyHTTPError(tt.status))
		})
	}
}
