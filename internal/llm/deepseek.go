package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-humanizer/internal/apierr"
)

// DeepSeek API configuration.
const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com"
	defaultDeepSeekModel   = "deepseek-chat"
	deepSeekProvider       = "deepseek"
)

// httpDoer abstracts HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface compliance check.
var _ Completer = (*DeepSeekClient)(nil)

// DeepSeekClient calls DeepSeek's chat completion endpoint over plain HTTP.
type DeepSeekClient struct {
	apiKey      string
	baseURL     string
	model       string
	httpTimeout time.Duration
	httpClient  httpDoer
	logger      *zap.Logger
}

// DeepSeekOption configures a DeepSeekClient.
type DeepSeekOption func(*DeepSeekClient)

// WithDeepSeekModel sets the model id. Empty keeps the default.
func WithDeepSeekModel(model string) DeepSeekOption {
	return func(c *DeepSeekClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithDeepSeekBaseURL sets a custom base URL (for testing or proxies).
func WithDeepSeekBaseURL(url string) DeepSeekOption {
	return func(c *DeepSeekClient) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithDeepSeekHTTPTimeout sets the transport timeout.
func WithDeepSeekHTTPTimeout(timeout time.Duration) DeepSeekOption {
	return func(c *DeepSeekClient) {
		if timeout > 0 {
			c.httpTimeout = timeout
		}
	}
}

// WithDeepSeekLogger sets the logger for start/end markers.
func WithDeepSeekLogger(l *zap.Logger) DeepSeekOption {
	return func(c *DeepSeekClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// withDeepSeekHTTPClient sets a custom HTTP client (for testing).
func withDeepSeekHTTPClient(client httpDoer) DeepSeekOption {
	return func(c *DeepSeekClient) {
		c.httpClient = client
	}
}

// NewDeepSeekClient creates a DeepSeekClient. An empty apiKey is accepted so
// that Complete can report ErrMissingCredential without a network call.
func NewDeepSeekClient(apiKey string, opts ...DeepSeekOption) *DeepSeekClient {
	c := &DeepSeekClient{
		apiKey:      apiKey,
		baseURL:     defaultDeepSeekBaseURL,
		model:       defaultDeepSeekModel,
		httpTimeout: defaultHTTPTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// Create HTTP client after options are applied (timeout may be customized).
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.httpTimeout}
	}
	return c
}

// Model returns the configured model id.
func (c *DeepSeekClient) Model() string {
	return c.model
}

// Complete sends req and returns the first choice's message content.
// A 2xx response without content fails with ErrMalformedResponse.
func (c *DeepSeekClient) Complete(ctx context.Context, req Request) (out string, err error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("deepseek: %w", apierr.ErrMissingCredential)
	}
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	start := logStart(c.logger, deepSeekProvider, c.model, req)
	defer func() { logEnd(c.logger, deepSeekProvider, start, out, err) }()

	resp, err := c.callAPI(ctx, chatRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	})
	if err != nil {
		return "", err
	}

	// A cancellation that raced with a successful read still wins.
	if ctx.Err() != nil {
		return "", classifyTransport(ctx, ctx.Err())
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("deepseek: no completion text: %w", apierr.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// chatRequest is the chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage is one message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse keeps only the fields the client reads.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// callAPI makes an HTTP request to the chat completion endpoint.
func (c *DeepSeekClient) callAPI(ctx context.Context, reqBody chatRequest) (_ *chatResponse, err error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Limit response size to prevent OOM from malformed responses.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, respBody)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w: %w", apierr.ErrMalformedResponse, err)
	}
	return &result, nil
}

// parseError builds an UpstreamError. An unparseable body degrades to an
// empty detail instead of surfacing a second parse failure.
func parseError(statusCode int, body []byte) *apierr.UpstreamError {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return apierr.NewUpstreamError(statusCode, "", "")
	}
	return apierr.NewUpstreamError(statusCode, errResp.Error.Message, errResp.Error.Type)
}
