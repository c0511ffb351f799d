package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := LevelFromString(in); got != want {
			t.Errorf("LevelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHandler(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(NewHandler(&buf, slog.LevelInfo, "json")).Info("hello", "months", 3)

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
		}
		if rec["msg"] != "hello" {
			t.Errorf("msg = %v, want hello", rec["msg"])
		}
		if rec["months"] != float64(3) {
			t.Errorf("months = %v, want 3", rec["months"])
		}
	})

	t.Run("text respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewHandler(&buf, slog.LevelWarn, "text"))
		logger.Info("quiet")
		logger.Warn("loud")

		out := buf.String()
		if strings.Contains(out, "quiet") {
			t.Errorf("info record should be filtered: %q", out)
		}
		if !strings.Contains(out, "loud") {
			t.Errorf("warn record missing: %q", out)
		}
	})
}
