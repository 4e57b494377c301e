// Package logger wraps slog with a process-wide logger: JSON in production,
// human-readable text everywhere else, plus a gorm adapter so database logs
// land in the same stream.
package logger

import (
	"log/slog"
	"os"
)

// Log is the process-wide logger, set once by Setup
var Log *slog.Logger

// Setup builds the global logger. Development runs get debug-level text
// output; production emits info-level JSON for the log collector.
func Setup(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}
