package logging

import (
	"log/slog"
	"os"
	"strings"
)

const serviceName = "camineria-backend"

// Setup initializes the global logger: JSON to stdout, tagged with the
// service name, level taken from LOG_LEVEL.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: LevelFromEnv(),
	})
	slog.SetDefault(NewLogger(handler))
}

// NewLogger wraps a handler with the service-wide attributes.
func NewLogger(h slog.Handler) *slog.Logger {
	return slog.New(h).With(slog.String("service", serviceName))
}

// LevelFromEnv maps LOG_LEVEL onto an slog level, defaulting to info.
func LevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
