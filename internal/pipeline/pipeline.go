// Package pipeline orchestrates a transformation: prompt building, a single
// completion call, and the local post-processing layered on its result.
//
// The Service never retries and never rewrites errors. Whatever the
// completer returns reaches the caller unchanged, so presentation layers can
// classify it with apierr.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/alnah/go-humanizer/internal/llm"
	"github.com/alnah/go-humanizer/internal/prompt"
	"github.com/alnah/go-humanizer/internal/usecase"
)

// Service runs AI-backed transformations through an injected Completer.
// It holds no mutable state and is safe for concurrent use when the
// Completer is.
type Service struct {
	completer llm.Completer
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for debug markers.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service backed by completer.
func New(completer llm.Completer, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process runs the general "make it sound human" transformation.
func (s *Service) Process(ctx context.Context, text string, uc usecase.UseCase, customPrompt string) (string, error) {
	return s.Run(ctx, prompt.Process, text, uc, customPrompt)
}

// Humanize runs the humanize framing.
func (s *Service) Humanize(ctx context.Context, text string, uc usecase.UseCase, customPrompt string) (string, error) {
	return s.Run(ctx, prompt.Humanize, text, uc, customPrompt)
}

// Rewrite runs the rewrite framing.
func (s *Service) Rewrite(ctx context.Context, text string, uc usecase.UseCase, customPrompt string) (string, error) {
	return s.Run(ctx, prompt.Rewrite, text, uc, customPrompt)
}

// Run builds the prompt for task and returns the raw completion text.
// Empty text is not special-cased; callers short-circuit it.
func (s *Service) Run(ctx context.Context, task prompt.Task, text string, uc usecase.UseCase, customPrompt string) (string, error) {
	spec := prompt.Build(task, uc, customPrompt, text)

	s.logger.Debug("transformation requested",
		zap.String("task", task.String()),
		zap.String("use_case", uc.OrDefault().String()))

	out, err := s.completer.Complete(ctx, llm.Request{
		System:      spec.System,
		User:        spec.User,
		Temperature: spec.Temperature,
		MaxTokens:   spec.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
