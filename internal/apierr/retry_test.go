package apierr_test

// Notes:
// - Retry timing is not asserted, only attempt counts and returned errors.
// - Delays are 1ms so the suite stays fast.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alnah/go-humanizer/internal/apierr"
)

var fastRetry = apierr.RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

// ---------------------------------------------------------------------------
// TestRetryWithBackoff - caller-side retry policy
// ---------------------------------------------------------------------------

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("success on first try returns immediately", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := apierr.RetryWithBackoff(context.Background(), fastRetry,
			func() (string, error) {
				calls++
				return "done", nil
			},
			apierr.IsRetryable,
		)
		if err != nil {
			t.Fatalf("RetryWithBackoff() unexpected error: %v", err)
		}
		if got != "done" || calls != 1 {
			t.Errorf("got (%q, %d calls), want (\"done\", 1 call)", got, calls)
		}
	})

	t.Run("retries transient upstream failures then succeeds", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := apierr.RetryWithBackoff(context.Background(), fastRetry,
			func() (string, error) {
				calls++
				if calls < 3 {
					return "", apierr.NewUpstreamError(http.StatusServiceUnavailable, "", "")
				}
				return "recovered", nil
			},
			apierr.IsRetryable,
		)
		if err != nil {
			t.Fatalf("RetryWithBackoff() unexpected error: %v", err)
		}
		if got != "recovered" {
			t.Errorf("got %q, want %q", got, "recovered")
		}
		if calls != 3 {
			t.Errorf("call count = %d, want 3", calls)
		}
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := apierr.RetryWithBackoff(context.Background(), fastRetry,
			func() (string, error) {
				calls++
				return "", apierr.NewUpstreamError(http.StatusUnauthorized, "bad key", "")
			},
			apierr.IsRetryable,
		)
		if !errors.Is(err, apierr.ErrAuthFailed) {
			t.Errorf("error = %v, want ErrAuthFailed", err)
		}
		if calls != 1 {
			t.Errorf("call count = %d, want 1", calls)
		}
	})

	t.Run("max retries exceeded wraps last error", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := apierr.RetryWithBackoff(context.Background(),
			apierr.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond},
			func() (string, error) {
				calls++
				return "", fmt.Errorf("dial: %w", apierr.ErrTransport)
			},
			apierr.IsRetryable,
		)
		if !errors.Is(err, apierr.ErrTransport) {
			t.Errorf("error = %v, want wrapped ErrTransport", err)
		}
		if calls != 3 {
			t.Errorf("call count = %d, want 3 (1 initial + 2 retries)", calls)
		}
	})

	t.Run("cancelled context stops before the next attempt", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := apierr.RetryWithBackoff(ctx,
			apierr.RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: time.Minute},
			func() (string, error) {
				calls++
				return "", apierr.ErrRateLimit
			},
			apierr.IsRetryable,
		)
		if !errors.Is(err, context.Canceled) || !errors.Is(err, apierr.ErrCancelled) {
			t.Errorf("error = %v, want ErrCancelled wrapping context.Canceled", err)
		}
		if calls != 1 {
			t.Errorf("call count = %d, want 1", calls)
		}
	})

	t.Run("negative MaxRetries normalized to a single attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, _ = apierr.RetryWithBackoff(context.Background(),
			apierr.RetryConfig{MaxRetries: -1},
			func() (int, error) {
				calls++
				return 0, apierr.ErrTimeout
			},
			apierr.IsRetryable,
		)
		if calls != 1 {
			t.Errorf("call count = %d, want 1", calls)
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsRetryable - transient vs permanent classification
// ---------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", apierr.NewUpstreamError(http.StatusTooManyRequests, "slow down", ""), true},
		{"quota exceeded", apierr.NewUpstreamError(http.StatusTooManyRequests, "You exceeded your current quota", ""), false},
		{"payment required", apierr.NewUpstreamError(http.StatusPaymentRequired, "Insufficient Balance", ""), false},
		{"internal server error", apierr.NewUpstreamError(http.StatusInternalServerError, "", ""), true},
		{"bad gateway", apierr.NewUpstreamError(http.StatusBadGateway, "", ""), true},
		{"gateway timeout", apierr.NewUpstreamError(http.StatusGatewayTimeout, "", ""), true},
		{"unauthorized", apierr.NewUpstreamError(http.StatusUnauthorized, "", ""), false},
		{"bad request", apierr.NewUpstreamError(http.StatusBadRequest, "", ""), false},
		{"transport", fmt.Errorf("connection reset: %w", apierr.ErrTransport), true},
		{"timeout", fmt.Errorf("deadline: %w", apierr.ErrTimeout), true},
		{"cancelled", apierr.Cancelled(context.Canceled), false},
		{"missing credential", apierr.ErrMissingCredential, false},
		{"malformed", apierr.ErrMalformedResponse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := apierr.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
