package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/alnah/go-humanizer/internal/config"
	"github.com/alnah/go-humanizer/internal/transform"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	factory      *mockCompleterFactory
	completer    *mockCompleter
	stdout       *syncBuffer
	stderr       *syncBuffer
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

type testEnvOptions struct {
	stdin  string
	getenv func(string) string
	cfg    config.Config
}

type testEnvOption func(*testEnvOptions)

func withStdinText(s string) testEnvOption {
	return func(o *testEnvOptions) { o.stdin = s }
}

func withTestConfig(cfg config.Config) testEnvOption {
	return func(o *testEnvOptions) { o.cfg = cfg }
}

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

// testEnv creates a test Env with all dependencies mocked.
// The config carries a DeepSeek key unless overridden.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		getenv: staticEnv(nil),
		cfg:    config.Config{DeepSeekAPIKey: "test-deepseek-key", OpenAIAPIKey: "test-openai-key"},
	}
	for _, opt := range opts {
		opt(options)
	}

	cfg := options.cfg
	mocks := &testMocks{
		configLoader: &mockConfigLoader{
			LoadFunc: func() (config.Config, error) { return cfg, nil },
		},
		completer: &mockCompleter{},
		stdout:    &syncBuffer{},
		stderr:    &syncBuffer{},
	}
	mocks.factory = &mockCompleterFactory{mockCompleter: mocks.completer}

	env := &Env{
		Stdin:            strings.NewReader(options.stdin),
		Stdout:           mocks.stdout,
		Stderr:           mocks.stderr,
		Getenv:           options.getenv,
		Logger:           zap.NewNop(),
		Rand:             transform.NewSeededRand(1),
		ConfigLoader:     mocks.configLoader,
		CompleterFactory: mocks.factory,
	}

	return env, mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// providerComparer lets cmp compare Provider values despite the unexported name.
var providerComparer = cmp.Comparer(func(a, b Provider) bool { return a == b })

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// writeTempFile creates a file with content in a fresh temp dir.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}
