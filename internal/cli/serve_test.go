package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-humanizer/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseServeOptions
// ---------------------------------------------------------------------------

func TestParseServeOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		provider  string
		rateLimit int
		wantErr   bool
	}{
		{"defaults", "", 30, false},
		{"openai", "openai", 10, false},
		{"bad provider", "mistral", 30, true},
		{"zero rate limit", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseServeOptions("", tt.provider, "", tt.rateLimit, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseServeOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunServe - end to end over a real listener
// ---------------------------------------------------------------------------

// waitForAddr polls stderr for the listening banner and returns the address.
func waitForAddr(t *testing.T, stderr *syncBuffer) string {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		out := stderr.String()
		if _, rest, ok := strings.Cut(out, "Listening on http://"); ok {
			addr, _, _ := strings.Cut(rest, " ")
			return addr
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server never reported its address; stderr = %q", stderr.String())
	return ""
}

func TestRunServe_ServesProcessAndStops(t *testing.T) {
	t.Parallel()

	env, mocks := testEnv(withTestConfig(config.Config{
		Provider:     "openai",
		OpenAIAPIKey: "oa",
		Model:        "gpt-4o",
		BaseURL:      "http://localhost:11434/v1",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- runServe(ctx, env, serveOptions{listen: "127.0.0.1:0", rateLimit: 30})
	}()

	addr := waitForAddr(t, mocks.stderr)

	resp, err := http.Post("http://"+addr+"/v1/process", "application/json",
		strings.NewReader(`{"text":"robotic prose","useCase":"casual"}`))
	if err != nil {
		t.Fatalf("POST /v1/process: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Text   string `json:"text"`
		AIText string `json:"aiText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.AIText != "humanized text" {
		t.Errorf("aiText = %q, want %q", body.AIText, "humanized text")
	}

	want := []completerCall{{Provider: OpenAIProvider, APIKey: "oa", Model: "gpt-4o", BaseURL: "http://localhost:11434/v1"}}
	if diff := cmp.Diff(want, mocks.factory.Calls(), providerComparer); diff != "" {
		t.Errorf("factory calls mismatch (-want +got):\n%s", diff)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("runServe() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancellation")
	}
	if !strings.Contains(mocks.stderr.String(), "Server stopped.") {
		t.Errorf("stderr = %q, want stop message", mocks.stderr.String())
	}
}

func TestRunServe_WarnsWithoutCredential(t *testing.T) {
	t.Parallel()

	env, mocks := testEnv(withTestConfig(config.Config{}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- runServe(ctx, env, serveOptions{listen: "127.0.0.1:0", rateLimit: 30})
	}()

	waitForAddr(t, mocks.stderr)
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("runServe() error = %v", err)
	}

	if !strings.Contains(mocks.stderr.String(), "Warning: no deepseek credential") {
		t.Errorf("stderr = %q, want missing credential warning", mocks.stderr.String())
	}
}

func TestRunServe_ListenError(t *testing.T) {
	t.Parallel()

	env, _ := testEnv()
	err := runServe(context.Background(), env, serveOptions{listen: "256.0.0.1:bad", rateLimit: 30})
	if err == nil {
		t.Fatal("runServe() expected listen error")
	}
}
