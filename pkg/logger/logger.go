// Package logger wraps log/slog for consistent structured logging across
// loading, recomputation and the front ends.
//
// The TUI owns the terminal, so Setup can redirect all output to a file (and
// Bubble Tea's own log along with it) or discard it entirely.
package logger

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Logger is the default logger instance.
var Logger *slog.Logger

var level = new(slog.LevelVar)

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLevel configures the logging level.
func SetLevel(l slog.Level) { level.Set(l) }

// SetOutput routes log records to w as JSON.
func SetOutput(w io.Writer) {
	Logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup configures logging for an interactive session. An empty filename
// discards everything; otherwise records are appended to filename and Bubble
// Tea debug output is written to the same file.
func Setup(filename string) (cleanup func(), err error) {
	if filename == "" {
		SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	SetOutput(f)

	tf, err := tea.LogToFile(filename, "tea")
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() {
		_ = tf.Close()
		_ = f.Close()
	}, nil
}

func Info(msg string, args ...any)  { Logger.Info(msg, args...) }
func Debug(msg string, args ...any) { Logger.Debug(msg, args...) }
func Warn(msg string, args ...any)  { Logger.Warn(msg, args...) }
func Error(msg string, args ...any) { Logger.Error(msg, args...) }

// WithColumn returns a logger carrying the selected column.
func WithColumn(column string) *slog.Logger {
	return Logger.With("column", column)
}

// WithProcessor returns a logger carrying the processor name.
func WithProcessor(name string) *slog.Logger {
	return Logger.With("processor", name)
}
