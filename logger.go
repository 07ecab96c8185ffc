package indexer

import (
	"context"
	"log/slog"
)

// Logger is the minimal structured-logging surface the engine needs: a
// warning for zombie migration (Cleanup) and for epoch-mismatch callback
// failures (Consume). Modeled on log/slog.
type Logger interface {
	WarnContext(ctx context.Context, msg string, args ...any)
}

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct{ l *slog.Logger }

func (s slogLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func defaultLogger() Logger { return slogLogger{l: slog.Default()} }

// NewSlogLogger adapts an arbitrary *slog.Logger for use with WithLogger.
func NewSlogLogger(l *slog.Logger) Logger { return slogLogger{l: l} }
