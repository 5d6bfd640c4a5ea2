package cli

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/go-humanizer/internal/config"
	"github.com/alnah/go-humanizer/internal/llm"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock CompleterFactory + Completer
// ---------------------------------------------------------------------------

type completerCall struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string
}

type mockCompleterFactory struct {
	mockCompleter *mockCompleter

	mu    sync.Mutex
	calls []completerCall
}

func (f *mockCompleterFactory) NewCompleter(provider Provider, apiKey, model, baseURL string, logger *zap.Logger) llm.Completer {
	f.mu.Lock()
	f.calls = append(f.calls, completerCall{Provider: provider, APIKey: apiKey, Model: model, BaseURL: baseURL})
	f.mu.Unlock()

	if f.mockCompleter != nil {
		return f.mockCompleter
	}
	return &mockCompleter{}
}

func (f *mockCompleterFactory) Calls() []completerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]completerCall(nil), f.calls...)
}

type mockCompleter struct {
	CompleteFunc func(ctx context.Context, req llm.Request) (string, error)

	mu    sync.Mutex
	calls []llm.Request
}

func (m *mockCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "humanized text", nil
}

func (m *mockCompleter) Calls() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.calls...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader     = (*mockConfigLoader)(nil)
	_ CompleterFactory = (*mockCompleterFactory)(nil)
	_ llm.Completer    = (*mockCompleter)(nil)
)
