package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the handler format, minimum level and destination.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New returns a structured logger. Unknown levels fall back to info and
// unknown formats to text; in both cases the fallback is logged as a warning.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var warnings []string
	level := slog.LevelInfo
	switch strings.ToLower(opts.Level) {
	case "", "info":
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		warnings = append(warnings, "could not parse logger level")
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	case "", "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		handler = slog.NewTextHandler(out, handlerOpts)
		warnings = append(warnings, "could not parse logger format")
	}

	log := slog.New(handler)
	for _, w := range warnings {
		log.Warn(w, "level", opts.Level, "format", opts.Format)
	}
	return log
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
