// Package log provides context-aware structured logging built on slog.
package log

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type slogFieldKey struct{}

var slogFields slogFieldKey

// ContextHandler decorates an slog.Handler with attributes
// carried in the request context.
type ContextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before
// calling the underlying handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}
	return h.Handler.Handle(ctx, r)
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		v = append(v, attr)
		return context.WithValue(parent, slogFields, v)
	}

	return context.WithValue(parent, slogFields, []slog.Attr{attr})
}

func levelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "ERROR":
		return slog.LevelError
	case "WARN":
		return slog.LevelWarn
	case "INFO":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// New returns a JSON logger writing to stderr. When options is nil the
// level is taken from LOG_LEVEL, defaulting to debug.
func New(options *slog.HandlerOptions) *slog.Logger {
	if options == nil {
		options = &slog.HandlerOptions{
			Level: levelFromEnv(),
		}
	}

	return slog.New(&ContextHandler{
		Handler: slog.NewJSONHandler(os.Stderr, options),
	})
}

// NullLogger returns a logger that discards every record. Used in tests.
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
