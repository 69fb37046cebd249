package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

var (
	defaultLogger      = slog.New(slog.NewTextHandler(io.Discard, nil))
	defaultLoggerMutex sync.RWMutex
)

// Default returns the process wide logger. It discards everything until SetDefault is called.
func Default() *slog.Logger {
	defaultLoggerMutex.RLock()
	defer defaultLoggerMutex.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process wide logger
func SetDefault(logger *slog.Logger) {
	defaultLoggerMutex.Lock()
	defer defaultLoggerMutex.Unlock()
	defaultLogger = logger
}

type ctxLoggerKey struct{}

// With returns a context carrying logger
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From returns the logger stored in ctx, or Default() if there is none
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
