// Package logging provides structured logging for relver built on slog.
// Logs go to stderr by default so command output stays clean on stdout; a
// log file can be configured instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger wraps slog with relver-specific helpers for attaching workspace
// and task context.
type Logger struct {
	logger *slog.Logger
	file   *os.File
	mu     sync.Mutex
	attrs  []slog.Attr
}

// NewLogger creates a logger writing JSON records at the given level. When
// path is empty, records go to stderr; otherwise they are appended to the
// file at path.
func NewLogger(path string, level slog.Level) (*Logger, error) {
	var w io.Writer = os.Stderr
	var file *os.File
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		file = f
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{
		logger: slog.New(handler),
		file:   file,
	}, nil
}

// NopLogger returns a logger that discards everything. For tests.
func NopLogger() *Logger {
	handler := slog.NewJSONHandler(io.Discard, nil)
	return &Logger{logger: slog.New(handler)}
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// WithPackage returns a child logger tagged with a package name.
func (l *Logger) WithPackage(name string) *Logger {
	return l.withAttr(slog.String("package", name))
}

// WithTask returns a child logger tagged with a task label.
func (l *Logger) WithTask(label string) *Logger {
	return l.withAttr(slog.String("task", label))
}

// WithWorkspace returns a child logger tagged with the workspace root.
func (l *Logger) WithWorkspace(root string) *Logger {
	return l.withAttr(slog.String("workspace", root))
}

// With returns a child logger with an arbitrary attribute.
func (l *Logger) With(key string, value any) *Logger {
	return l.withAttr(slog.Any(key, value))
}

func (l *Logger) withAttr(attr slog.Attr) *Logger {
	return &Logger{
		logger: l.logger.With(attr),
		file:   l.file,
		attrs:  append(append([]slog.Attr{}, l.attrs...), attr),
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// ParseLevel converts a level name into a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevels lists the accepted level names.
func ValidLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}
