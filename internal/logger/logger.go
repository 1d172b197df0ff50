// Package logger configures the slog logger used by the command line tools.
//
// In development the output is colourised text (lmittmann/tint) written to stderr;
// in other environments it is JSON so it can be collected by a log pipeline.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// InitLogger creates the application logger and makes it the slog default.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stderr, level, environment))
	slog.SetDefault(logger)
	return logger
}

// NewHandler returns the handler InitLogger uses, writing to w.
func NewHandler(w io.Writer, level slog.Level, environment string) slog.Handler {
	if environment == "dev" {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// ParseLogLevel converts a LOG_LEVEL value to a slog level (default info).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
