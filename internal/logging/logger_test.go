package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerPullsComponentIntoPrefix(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Info("photo archived", slog.String(FieldComponent, "layout"), slog.Int("index", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO layout: photo archived") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "index=3") {
		t.Fatalf("expected index attr in line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))

	logger.Warn("renderer failed", slog.String("artifact", "pdf report"))

	line := buf.String()
	if !strings.Contains(line, `artifact="pdf report"`) {
		t.Fatalf("expected quoted value in line: %q", line)
	}
}

func TestJSONHandlerRenamesCoreKeys(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))

	logger.Info("run complete", slog.String(FieldReportID, "abc123"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if payload["msg"] != "run complete" {
		t.Fatalf("expected msg key, got %v", payload)
	}
	if payload[FieldReportID] != "abc123" {
		t.Fatalf("expected report_id attr, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithComponentOnNilLogger(t *testing.T) {
	logger := WithComponent(nil, "analysis")
	// Must not panic and must stay disabled.
	logger.Info("ignored")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected no-op logger to be disabled")
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
