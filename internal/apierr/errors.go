// Package apierr provides shared error sentinels and retry infrastructure
// for HTTP-based completion clients. All provider-specific failures are
// classified into these sentinels at the adapter boundary.
//
// Providers map HTTP status codes to these errors through *UpstreamError,
// which unwraps to the matching sentinel. Callers check with
// errors.Is(err, apierr.ErrRateLimit) or errors.As(err, &upstreamErr).
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for completion failures.
var (
	// ErrMissingCredential indicates no API key was configured.
	// Checked before any network call is attempted.
	ErrMissingCredential = errors.New("API key not configured")

	// ErrCancelled indicates the caller cancelled the request before or during the call.
	ErrCancelled = errors.New("request cancelled")

	// ErrMalformedResponse indicates a 2xx response without completion text.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrTransport indicates a network failure with no HTTP status (DNS, TLS, reset).
	ErrTransport = errors.New("transport failure")

	// ErrUpstream indicates a non-2xx response that is not otherwise classified.
	ErrUpstream = errors.New("upstream error")

	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")
)

// UpstreamError is a non-2xx response from the completion endpoint.
// Detail is the provider's error message when the body was valid JSON, empty otherwise.
type UpstreamError struct {
	StatusCode int
	Detail     string
	Type       string
	kind       error
}

// NewUpstreamError classifies a status code into an UpstreamError.
func NewUpstreamError(statusCode int, detail, errType string) *UpstreamError {
	return &UpstreamError{
		StatusCode: statusCode,
		Detail:     detail,
		Type:       errType,
		kind:       classifyStatus(statusCode, detail),
	}
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Unwrap returns the sentinel matching the status code.
func (e *UpstreamError) Unwrap() error {
	return e.kind
}

// classifyStatus maps an HTTP status to a sentinel.
// DeepSeek reports insufficient balance with 402; OpenAI uses 429 with a quota message.
func classifyStatus(code int, detail string) error {
	switch code {
	case http.StatusTooManyRequests:
		if containsAny(detail, "quota", "billing") {
			return ErrQuotaExceeded
		}
		return ErrRateLimit
	case http.StatusPaymentRequired:
		return ErrQuotaExceeded
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusUnprocessableEntity:
		return ErrBadRequest
	}
	return ErrUpstream
}

// Cancelled wraps cause so that errors.Is matches both ErrCancelled and cause.
func Cancelled(cause error) error {
	if cause == nil {
		cause = context.Canceled
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// IsCancelled reports whether err represents a caller cancellation.
// Presentation layers render these as a neutral state, never as a failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// Message renders err as a short human-readable sentence for end users.
// Every class of failure produces a distinct message.
func Message(err error) string {
	var upErr *UpstreamError
	switch {
	case err == nil:
		return ""
	case IsCancelled(err):
		return "Cancelled."
	case errors.Is(err, ErrMissingCredential):
		return "No API key configured. Set DEEPSEEK_API_KEY (or OPENAI_API_KEY) or run: humanizer config set deepseek-api-key <key>"
	case errors.Is(err, ErrMalformedResponse):
		return "The model returned a response without any text."
	case errors.As(err, &upErr):
		switch {
		case errors.Is(err, ErrAuthFailed):
			return "The API key was rejected by the provider."
		case errors.Is(err, ErrRateLimit):
			return "The provider is rate limiting requests. Try again shortly."
		case errors.Is(err, ErrQuotaExceeded):
			return "The provider account has no remaining quota."
		}
		if upErr.Detail != "" {
			return fmt.Sprintf("The provider returned HTTP %d: %s", upErr.StatusCode, upErr.Detail)
		}
		return fmt.Sprintf("The provider returned HTTP %d.", upErr.StatusCode)
	case errors.Is(err, ErrTimeout):
		return "The request timed out."
	case errors.Is(err, ErrTransport):
		return "Could not reach the provider. Check your network connection."
	}
	return err.Error()
}

func containsAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
