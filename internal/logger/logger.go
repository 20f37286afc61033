package logger

import (
	"log/slog"
	"os"
	"strings"
)

var (
	// Logger is the global slog logger instance. It defaults to info-level
	// JSON so packages can log before Init runs (tests, tools).
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
)

// Init configures the global logger from the environment. LOG_LEVEL picks
// the level; ENVIRONMENT=development switches to a text handler (default
// level debug) so local draft runs stay readable, while anything else keeps
// JSON for log aggregation.
func Init() {
	dev := os.Getenv("ENVIRONMENT") == "development"

	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		if dev {
			logLevelStr = "debug"
		} else {
			logLevelStr = "info"
		}
	}

	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if dev {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	Logger.Info("Logger initialized", "level", level.String())
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
