package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		wantJSON bool
	}{
		{"json", FormatJSON, true},
		{"text", FormatText, false},
		{"unknown falls back to text", Format("xml"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Format: tt.format, Output: &buf})

			logger.Info("bundle restored", "restored_from", "raw_copy", "backup_created", true)

			output := buf.String()
			if output == "" {
				t.Fatal("expected output, got empty string")
			}

			var parsed map[string]any
			isJSON := json.Unmarshal([]byte(output), &parsed) == nil
			if isJSON != tt.wantJSON {
				t.Fatalf("JSON output = %v, want %v: %s", isJSON, tt.wantJSON, output)
			}
			if tt.wantJSON {
				if parsed["msg"] != "bundle restored" {
					t.Errorf("msg = %v", parsed["msg"])
				}
				if parsed["restored_from"] != "raw_copy" {
					t.Errorf("restored_from = %v", parsed["restored_from"])
				}
				return
			}
			for _, want := range []string{"INFO", "bundle restored", "restored_from=raw_copy", "backup_created=true"} {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q: %s", want, output)
				}
			}
		})
	}
}

func TestNew_NilOutput(t *testing.T) {
	if New(Config{Level: slog.LevelInfo}) == nil {
		t.Fatal("expected non-nil logger")
	}
	if Default() == nil {
		t.Fatal("expected non-nil default logger")
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	logger.Debug("debug message", "key", "value")
	logger.Error("error message", "err", "disk full")
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name         string
		configLevel  slog.Level
		logLevel     slog.Level
		shouldAppear bool
	}{
		{"info at info", slog.LevelInfo, slog.LevelInfo, true},
		{"debug at info", slog.LevelInfo, slog.LevelDebug, false},
		{"error at info", slog.LevelInfo, slog.LevelError, true},
		{"info at warn", slog.LevelWarn, slog.LevelInfo, false},
		{"warn at warn", slog.LevelWarn, slog.LevelWarn, true},
		{"trace at debug", slog.LevelDebug, LevelTrace, false},
		{"trace at trace", LevelTrace, LevelTrace, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.configLevel, Format: FormatText, Output: &buf})

			logger.Log(context.Background(), tt.logLevel, "test message")

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldAppear {
				t.Errorf("got output=%v, want %v (config %v, log %v): %q",
					hasOutput, tt.shouldAppear, tt.configLevel, tt.logLevel, buf.String())
			}
		})
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(context.Background(), LevelTrace) {
		t.Error("ForTest logger should accept trace records")
	}
	logger.Log(context.Background(), LevelTrace, "statement", "sql", "INSERT INTO t VALUES(1)")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestTestWriter_TrimsNewline(t *testing.T) {
	tw := &testWriter{t: t}

	n, err := tw.Write([]byte("line\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len("line\n") {
		t.Errorf("Write returned %d, want %d", n, len("line\n"))
	}
}
