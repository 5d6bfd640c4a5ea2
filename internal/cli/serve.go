package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-humanizer/internal/pipeline"
	"github.com/alnah/go-humanizer/internal/server"
)

// serveOptions holds validated options for the serve command.
type serveOptions struct {
	listen    string
	provider  Provider
	model     string
	baseURL   string
	rateLimit int
	origins   []string
}

// ServeCmd creates the serve command.
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var (
		listen    string
		provider  string
		model     string
		baseURL   string
		rateLimit int
		origins   []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for browser front-ends",
		Long: `Start an HTTP server exposing the humanizer as a JSON API.

Endpoints:
  POST /v1/process    AI transformation plus local flags
  POST /v1/transform  Local dash and typo passes only
  POST /v1/rules      Local use-case rules
  GET  /v1/use-cases  Available use cases
  GET  /healthz       Liveness

Press Ctrl+C to stop. In-flight requests are cancelled on shutdown.`,
		Example: `  humanizer serve
  humanizer serve --listen :9000 --cors-origin https://app.example.com
  humanizer serve --provider openai --rate-limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseServeOptions(listen, provider, model, rateLimit, origins)
			if err != nil {
				return err
			}
			opts.baseURL = baseURL
			return runServe(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&provider, "provider", "", "Completion provider: deepseek, openai (default deepseek)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model id (default depends on provider)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL for OpenAI-compatible or self-hosted endpoints")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 30, "Max /v1/process requests per minute per client IP")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origin (repeatable, default *)")

	return cmd
}

// parseServeOptions validates serve flags.
func parseServeOptions(listen, provider, model string, rateLimit int, origins []string) (serveOptions, error) {
	var parsedProvider Provider
	if provider != "" {
		p, err := ParseProvider(provider)
		if err != nil {
			return serveOptions{}, err
		}
		parsedProvider = p
	}
	if rateLimit < 1 {
		return serveOptions{}, fmt.Errorf("--rate-limit must be >= 1, got %d", rateLimit)
	}
	return serveOptions{
		listen:    listen,
		provider:  parsedProvider,
		model:     model,
		rateLimit: rateLimit,
		origins:   origins,
	}, nil
}

// runServe starts the server and blocks until ctx is cancelled.
func runServe(ctx context.Context, env *Env, opts serveOptions) error {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	provider, err := resolveProvider(opts.provider, cfg)
	if err != nil {
		return err
	}
	model := opts.model
	if model == "" {
		model = cfg.Model
	}
	baseURL := opts.baseURL
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}
	addr := opts.listen
	if addr == "" {
		addr = cfg.Listen
	}
	if addr == "" {
		addr = server.DefaultAddr
	}

	apiKey := provider.APIKey(cfg)
	if apiKey == "" {
		fmt.Fprintf(env.Stderr, "Warning: no %s credential; /v1/process will answer 503 (set %s)\n",
			provider, provider.CredentialKey())
	}

	completer := env.CompleterFactory.NewCompleter(provider, apiKey, model, baseURL, env.Logger)
	svc := pipeline.New(completer, pipeline.WithLogger(env.Logger))

	srvOpts := []server.Option{
		server.WithLogger(env.Logger),
		server.WithRand(env.Rand),
		server.WithRateLimit(opts.rateLimit, time.Minute),
	}
	if len(opts.origins) > 0 {
		srvOpts = append(srvOpts, server.WithAllowedOrigins(opts.origins))
	}
	srv := server.New(svc, srvOpts...)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", addr, err)
	}

	fmt.Fprintf(env.Stderr, "Listening on http://%s (provider: %s). Press Ctrl+C to stop.\n", ln.Addr(), provider)
	if err := srv.Serve(ctx, ln); err != nil {
		return err
	}
	fmt.Fprintln(env.Stderr, "Server stopped.")
	return nil
}
