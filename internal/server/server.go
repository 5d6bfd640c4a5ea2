// Package server exposes the transformation pipeline as a small JSON API for
// browser front-ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-humanizer/internal/prompt"
	"github.com/alnah/go-humanizer/internal/transform"
	"github.com/alnah/go-humanizer/internal/usecase"
)

// Server defaults.
const (
	DefaultAddr = "127.0.0.1:8080"

	defaultRateLimit    = 30
	defaultRateWindow   = time.Minute
	defaultMaxBodyBytes = 1 << 20
	readHeaderTimeout   = 10 * time.Second
	shutdownTimeout     = 15 * time.Second
)

// Transformer runs one AI-backed transformation. *pipeline.Service satisfies it.
type Transformer interface {
	Run(ctx context.Context, task prompt.Task, text string, uc usecase.UseCase, customPrompt string) (string, error)
}

// Server serves the JSON API.
type Server struct {
	transformer    Transformer
	logger         *zap.Logger
	rng            transform.Rand
	allowedOrigins []string
	rateLimit      int
	rateWindow     time.Duration
	maxBodyBytes   int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and lifecycle logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRand sets the typo source. Calls are serialized, so a seeded source is safe.
func WithRand(r transform.Rand) Option {
	return func(s *Server) {
		if r != nil {
			s.rng = &lockedRand{r: r}
		}
	}
}

// WithAllowedOrigins sets the CORS origins. Empty allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithRateLimit sets the per-IP request budget. A non-positive limit disables it.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimit = limit
		if window > 0 {
			s.rateWindow = window
		}
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// New creates a Server backed by t.
func New(t Transformer, opts ...Option) *Server {
	s := &Server{
		transformer:  t,
		logger:       zap.NewNop(),
		rng:          transform.DefaultRand(),
		rateLimit:    defaultRateLimit,
		rateWindow:   defaultRateWindow,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(s.requestID, s.accessLog, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/healthz", s.healthz)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/use-cases", s.useCases)
		v1.Post("/transform", s.transform)
		v1.Post("/rules", s.rules)

		v1.Group(func(ai chi.Router) {
			if s.rateLimit > 0 {
				ai.Use(httprate.LimitByIP(s.rateLimit, s.rateWindow))
			}
			ai.Post("/process", s.process)
		})
	})

	return r
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// In-flight upstream calls observe the cancellation and end promptly.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// lockedRand serializes access to a source that is not safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  transform.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
