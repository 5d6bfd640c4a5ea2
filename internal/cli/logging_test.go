package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default is JSON at warn", func(t *testing.T) {
		t.Parallel()

		buf := &syncBuffer{}
		logger := NewLogger(buf, false)
		logger.Debug("hidden")
		logger.Info("hidden")
		logger.Warn("shown")

		out := strings.TrimSpace(buf.String())
		if strings.Contains(out, "hidden") {
			t.Errorf("output = %q, want debug/info suppressed", out)
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(out), &entry); err != nil {
			t.Fatalf("output %q is not one JSON line: %v", out, err)
		}
		if entry["msg"] != "shown" {
			t.Errorf("msg = %v, want %q", entry["msg"], "shown")
		}
	})

	t.Run("verbose logs debug", func(t *testing.T) {
		t.Parallel()

		buf := &syncBuffer{}
		logger := NewLogger(buf, true)
		logger.Debug("details")

		if !strings.Contains(buf.String(), "details") {
			t.Errorf("output = %q, want debug entry", buf.String())
		}
	})
}
