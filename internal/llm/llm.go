// Package llm wraps a single chat-completion call to a remote model.
//
// Clients hold an immutable credential, check it before touching the network,
// honour context cancellation, and classify every failure into apierr
// sentinels. They never retry, and they never log the credential or payloads.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-humanizer/internal/apierr"
)

// Completer sends one completion request and returns the completion text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a two-message conversation plus sampling parameters.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Default transport timeout. The core imposes no deadline of its own; callers
// that need one attach it to the context.
const defaultHTTPTimeout = 2 * time.Minute

// Response size limit to prevent OOM from malformed responses (10MB).
const maxResponseSize = 10 * 1024 * 1024

// classifyTransport maps a failed round trip to a sentinel. Context state wins
// over the transport error so a cancelled call always reports ErrCancelled.
func classifyTransport(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", apierr.ErrTimeout, ctxErr)
		}
		return apierr.Cancelled(ctxErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", apierr.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", apierr.ErrTransport, err)
}

// isDecodeError reports whether err came from decoding a response body.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

// checkContext reports a context that is already done before any I/O.
func checkContext(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return classifyTransport(ctx, ctx.Err())
}

// logStart and logEnd are the only log lines a completion emits.
func logStart(l *zap.Logger, provider, model string, req Request) time.Time {
	l.Debug("completion started",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Int("input_chars", len(req.User)))
	return time.Now()
}

func logEnd(l *zap.Logger, provider string, start time.Time, out string, err error) {
	fields := []zap.Field{
		zap.String("provider", provider),
		zap.Duration("duration", time.Since(start)),
	}
	switch {
	case err == nil:
		l.Debug("completion finished", append(fields, zap.Int("output_chars", len(out)))...)
	case apierr.IsCancelled(err):
		l.Debug("completion cancelled", fields...)
	default:
		var upErr *apierr.UpstreamError
		if errors.As(err, &upErr) {
			fields = append(fields, zap.Int("status", upErr.StatusCode))
		}
		l.Warn("completion failed", append(fields, zap.Error(err))...)
	}
}
