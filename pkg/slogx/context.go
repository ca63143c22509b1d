package slogx

import (
	"context"
	"log/slog"
	"sync"
)

type ctxKey struct{}

// requestLogger is shared by every context derived from one request, so
// attributes added deep in the chain reach the access log line as well.
type requestLogger struct {
	mu     sync.RWMutex
	logger *slog.Logger
}

func (l *requestLogger) get() *slog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

func (l *requestLogger) with(args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = l.logger.With(args...)
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, &requestLogger{logger: logger})
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*requestLogger)
	if !ok {
		return slog.Default()
	}
	return l.get()
}

// With adds attributes to the request logger carried by ctx, e.g. the user
// id once the session has been verified. The logger is updated in place for
// the whole request; without one, a derived context is returned.
func With(ctx context.Context, args ...any) context.Context {
	if l, ok := ctx.Value(ctxKey{}).(*requestLogger); ok {
		l.with(args...)
		return ctx
	}
	return WithContext(ctx, slog.Default().With(args...))
}
