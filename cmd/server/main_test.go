package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"sportftv-backend/internal/config"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&config.Config{Env: "production", LogLevel: slog.LevelInfo}, &buf).Info("ready", "port", "8080")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Expected JSON log line in production, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "ready" || line["port"] != "8080" {
		t.Errorf("Unexpected log line %v", line)
	}

	buf.Reset()
	logger := newLogger(&config.Config{Env: "development", LogLevel: slog.LevelWarn}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected info to be filtered at warn level")
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "msg=shown") {
		t.Errorf("Expected text log line in development, got %q", out)
	}
}
