package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relver.log")
	logger, err := NewLogger(path, slog.LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info("version bumped", "from", "1.2.3", "to", "1.3.0")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	for _, want := range []string{"version bumped", `"from":"1.2.3"`, `"to":"1.3.0"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log output missing %q:\n%s", want, data)
		}
	}
}

func TestChildLoggers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relver.log")
	logger, err := NewLogger(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.WithPackage("core").WithTask("Git Tag: 1.3.0").Info("running task")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, _ := os.ReadFile(path)
	for _, want := range []string{`"package":"core"`, `"task":"Git Tag: 1.3.0"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log output missing %q:\n%s", want, data)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relver.log")
	logger, err := NewLogger(path, slog.LevelWarn)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")
	logger.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Errorf("below-level records leaked:\n%s", data)
	}
	if !strings.Contains(string(data), "visible") {
		t.Errorf("warn record missing:\n%s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Info("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nop logger: %v", err)
	}
}
