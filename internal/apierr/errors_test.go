package apierr_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/alnah/go-humanizer/internal/apierr"
)

// ---------------------------------------------------------------------------
// TestSentinelErrorDistinct - sentinels never match each other
// ---------------------------------------------------------------------------

func TestSentinelErrorDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		apierr.ErrMissingCredential,
		apierr.ErrCancelled,
		apierr.ErrMalformedResponse,
		apierr.ErrTransport,
		apierr.ErrUpstream,
		apierr.ErrRateLimit,
		apierr.ErrQuotaExceeded,
		apierr.ErrTimeout,
		apierr.ErrAuthFailed,
		apierr.ErrBadRequest,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors.Is(%v, %v) = true, want false", a, b)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestUpstreamError - status classification and rendering
// ---------------------------------------------------------------------------

func TestUpstreamError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		detail string
		want   error
	}{
		{"429 rate limit", http.StatusTooManyRequests, "Rate limit reached", apierr.ErrRateLimit},
		{"429 quota", http.StatusTooManyRequests, "check your plan and billing details", apierr.ErrQuotaExceeded},
		{"402 balance", http.StatusPaymentRequired, "Insufficient Balance", apierr.ErrQuotaExceeded},
		{"401 auth", http.StatusUnauthorized, "invalid api key", apierr.ErrAuthFailed},
		{"408 timeout", http.StatusRequestTimeout, "", apierr.ErrTimeout},
		{"504 timeout", http.StatusGatewayTimeout, "", apierr.ErrTimeout},
		{"400 bad request", http.StatusBadRequest, "invalid model", apierr.ErrBadRequest},
		{"422 bad request", http.StatusUnprocessableEntity, "", apierr.ErrBadRequest},
		{"500 upstream", http.StatusInternalServerError, "", apierr.ErrUpstream},
		{"503 upstream", http.StatusServiceUnavailable, "", apierr.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fmt.Errorf("complete: %w", apierr.NewUpstreamError(tt.status, tt.detail, ""))
			if !errors.Is(err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false, want true", err, tt.want)
			}

			var upErr *apierr.UpstreamError
			if !errors.As(err, &upErr) {
				t.Fatalf("errors.As(*UpstreamError) = false for %v", err)
			}
			if upErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", upErr.StatusCode, tt.status)
			}
		})
	}

	t.Run("error string without detail", func(t *testing.T) {
		t.Parallel()

		err := apierr.NewUpstreamError(http.StatusBadGateway, "", "")
		if got, want := err.Error(), "API error 502"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
}

// ---------------------------------------------------------------------------
// TestCancelled - both sentinel and context cause must match
// ---------------------------------------------------------------------------

func TestCancelled(t *testing.T) {
	t.Parallel()

	err := apierr.Cancelled(context.Canceled)
	if !errors.Is(err, apierr.ErrCancelled) {
		t.Errorf("errors.Is(err, ErrCancelled) = false")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("errors.Is(err, context.Canceled) = false")
	}
	if !apierr.IsCancelled(err) {
		t.Errorf("IsCancelled() = false, want true")
	}
	if !apierr.IsCancelled(apierr.Cancelled(nil)) {
		t.Errorf("IsCancelled(Cancelled(nil)) = false, want true")
	}
	if apierr.IsCancelled(apierr.ErrTimeout) {
		t.Errorf("IsCancelled(ErrTimeout) = true, want false")
	}
}

// ---------------------------------------------------------------------------
// TestMessage - user-facing rendering is distinct per failure class
// ---------------------------------------------------------------------------

func TestMessage(t *testing.T) {
	t.Parallel()

	errs := []error{
		apierr.Cancelled(context.Canceled),
		fmt.Errorf("process: %w", apierr.ErrMissingCredential),
		apierr.ErrMalformedResponse,
		apierr.NewUpstreamError(http.StatusUnauthorized, "", ""),
		apierr.NewUpstreamError(http.StatusTooManyRequests, "", ""),
		apierr.NewUpstreamError(http.StatusPaymentRequired, "", ""),
		apierr.NewUpstreamError(http.StatusInternalServerError, "boom", ""),
		apierr.NewUpstreamError(http.StatusServiceUnavailable, "", ""),
		fmt.Errorf("x: %w", apierr.ErrTimeout),
		fmt.Errorf("x: %w", apierr.ErrTransport),
	}

	seen := make(map[string]bool)
	for _, err := range errs {
		msg := apierr.Message(err)
		if msg == "" {
			t.Errorf("Message(%v) is empty", err)
		}
		if seen[msg] {
			t.Errorf("Message(%v) = %q duplicates another failure class", err, msg)
		}
		seen[msg] = true
	}

	if got := apierr.Message(apierr.Cancelled(nil)); got != "Cancelled." {
		t.Errorf("Message(cancelled) = %q, want %q", got, "Cancelled.")
	}
	if got := apierr.Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}
	if got := apierr.Message(apierr.NewUpstreamError(http.StatusInternalServerError, "boom", "")); !strings.Contains(got, "500") {
		t.Errorf("Message(500) = %q, want status code", got)
	}
}
