package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/alnah/go-humanizer/internal/config"
	"github.com/alnah/go-humanizer/internal/llm"
	"github.com/alnah/go-humanizer/internal/transform"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Diagnostics. Replaced by the root command once --verbose is parsed.
	Logger *zap.Logger

	// Randomness for typo injection.
	Rand transform.Rand

	// Factories for domain objects
	ConfigLoader     ConfigLoader
	CompleterFactory CompleterFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// CompleterFactory creates completion clients.
type CompleterFactory interface {
	// NewCompleter returns a client for provider. An empty apiKey yields a
	// client that fails with apierr.ErrMissingCredential on first use.
	// Empty model or baseURL keep the provider defaults.
	NewCompleter(provider Provider, apiKey, model, baseURL string, logger *zap.Logger) llm.Completer
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) EnvOption {
	return func(e *Env) {
		e.Logger = l
	}
}

// WithRand sets the random source for typo injection.
func WithRand(r transform.Rand) EnvOption {
	return func(e *Env) {
		e.Rand = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithCompleterFactory sets the completer factory.
func WithCompleterFactory(f CompleterFactory) EnvOption {
	return func(e *Env) {
		e.CompleterFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
// The default ConfigLoader reads the environment through env.Getenv, so
// WithGetenv also applies to configuration loading.
func DefaultEnv() *Env {
	env := &Env{
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		Getenv:           os.Getenv,
		Logger:           zap.NewNop(),
		Rand:             transform.DefaultRand(),
		CompleterFactory: &defaultCompleterFactory{},
	}
	env.ConfigLoader = &defaultConfigLoader{env: env}
	return env
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct {
	env *Env
}

func (l *defaultConfigLoader) Load() (config.Config, error) {
	return config.LoadWithEnv(l.env.Getenv)
}

// defaultCompleterFactory builds the raw-HTTP DeepSeek client or the
// go-openai client depending on provider.
type defaultCompleterFactory struct{}

func (defaultCompleterFactory) NewCompleter(provider Provider, apiKey, model, baseURL string, logger *zap.Logger) llm.Completer {
	if provider.IsOpenAI() {
		opts := []llm.OpenAIOption{llm.WithOpenAIModel(model), llm.WithOpenAILogger(logger)}
		if baseURL != "" {
			opts = append(opts, llm.WithOpenAIBaseURL(baseURL))
		}
		return llm.NewOpenAIClient(apiKey, opts...)
	}
	opts := []llm.DeepSeekOption{llm.WithDeepSeekModel(model), llm.WithDeepSeekLogger(logger)}
	if baseURL != "" {
		opts = append(opts, llm.WithDeepSeekBaseURL(baseURL))
	}
	return llm.NewDeepSeekClient(apiKey, opts...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = (*defaultConfigLoader)(nil)
	_ CompleterFactory = (*defaultCompleterFactory)(nil)
)
