package logger

import (
	"io"
	"log/slog"
	"os"
)

const (
	envLocal       = "local"
	envDevelopment = "development"
	envProduction  = "production"
)

// Setup builds the process logger for env and installs it as the slog default.
func Setup(env string) *slog.Logger {
	log := New(os.Stdout, env)
	slog.SetDefault(log)
	return log
}

func New(w io.Writer, env string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case envProduction:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case envDevelopment:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return slog.New(handler).With(slog.String("env", env))
}
