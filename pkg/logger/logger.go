package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init builds the process logger. Production always logs JSON at info or
// above; other environments honour the configured level and format.
func Init(env string, opts ...Option) {
	o := options{level: slog.LevelDebug, format: "text"}
	if env == "production" {
		o = options{level: slog.LevelInfo, format: "json"}
	}
	for _, opt := range opts {
		opt(&o)
	}

	var handler slog.Handler
	if o.format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: o.level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: o.level})
	}

	defaultLogger = slog.New(handler).With("service", "calong-tick")
	slog.SetDefault(defaultLogger)
}

type options struct {
	level  slog.Level
	format string
}

type Option func(*options)

func WithLevel(level string) Option {
	return func(o *options) {
		o.level = ParseLevel(level)
	}
}

func WithFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.format = strings.ToLower(format)
		}
	}
}

func ParseLevel(level string) slog.Level {
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

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
