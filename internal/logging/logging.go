// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup makes a tint handler writing to stderr the default slog logger.
func Setup(level string) {
	slog.SetDefault(New(os.Stderr, level))
}

func New(w io.Writer, level string) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.DateTime,
		AddSource:  true,
	}))
}

// ParseLevel accepts debug, info, warn and error; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
