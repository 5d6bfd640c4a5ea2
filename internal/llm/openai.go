package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/alnah/go-humanizer/internal/apierr"
)

const openAIProvider = "openai"

// chatCompleter abstracts the go-openai client for testing.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ Completer = (*OpenAIClient)(nil)

// OpenAIClient calls an OpenAI-compatible chat completion endpoint through go-openai.
type OpenAIClient struct {
	hasKey      bool
	baseURL     string
	model       string
	httpTimeout time.Duration
	httpClient  httpDoer
	client      chatCompleter
	logger      *zap.Logger
}

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithOpenAIModel sets the model id. Empty keeps the default.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at a compatible endpoint, including the /v1 suffix.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.baseURL = url
	}
}

// WithOpenAIHTTPTimeout sets the transport timeout.
func WithOpenAIHTTPTimeout(timeout time.Duration) OpenAIOption {
	return func(c *OpenAIClient) {
		if timeout > 0 {
			c.httpTimeout = timeout
		}
	}
}

// WithOpenAILogger sets the logger for start/end markers.
func WithOpenAILogger(l *zap.Logger) OpenAIOption {
	return func(c *OpenAIClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// withOpenAIHTTPClient sets the HTTP client go-openai sends through (for testing).
func withOpenAIHTTPClient(client httpDoer) OpenAIOption {
	return func(c *OpenAIClient) {
		c.httpClient = client
	}
}

// withChatCompleter replaces the go-openai client entirely (for testing).
func withChatCompleter(cc chatCompleter) OpenAIOption {
	return func(c *OpenAIClient) {
		c.client = cc
	}
}

// NewOpenAIClient creates an OpenAIClient. An empty apiKey is accepted so
// that Complete can report ErrMissingCredential without a network call.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		hasKey:      apiKey != "",
		model:       openai.GPT4oMini,
		httpTimeout: defaultHTTPTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		cfg := openai.DefaultConfig(apiKey)
		if c.baseURL != "" {
			cfg.BaseURL = c.baseURL
		}
		if c.httpClient != nil {
			cfg.HTTPClient = c.httpClient
		} else {
			cfg.HTTPClient = &http.Client{Timeout: c.httpTimeout}
		}
		c.client = openai.NewClientWithConfig(cfg)
	}
	return c
}

// Model returns the configured model id.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends req and returns the first choice's message content.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (out string, err error) {
	if !c.hasKey {
		return "", fmt.Errorf("openai: %w", apierr.ErrMissingCredential)
	}
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	start := logStart(c.logger, openAIProvider, c.model, req)
	defer func() { logEnd(c.logger, openAIProvider, start, out, err) }()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(ctx, err)
	}

	if ctx.Err() != nil {
		return "", classifyTransport(ctx, ctx.Err())
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: no completion text: %w", apierr.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError converts go-openai errors to apierr sentinels.
func classifyOpenAIError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return classifyTransport(ctx, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apierr.NewUpstreamError(apiErr.HTTPStatusCode, apiErr.Message, apiErr.Type)
	}

	// RequestError carries a status when the error body was not the JSON envelope.
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return apierr.NewUpstreamError(reqErr.HTTPStatusCode, "", "")
	}

	if isDecodeError(err) {
		return fmt.Errorf("failed to parse response: %w: %w", apierr.ErrMalformedResponse, err)
	}
	return classifyTransport(ctx, err)
}
