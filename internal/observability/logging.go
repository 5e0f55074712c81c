// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger. Production gets JSON output, every
// other environment gets the text handler.
func NewLogger(env, level string) *slog.Logger {
	return newLogger(os.Stdout, env, level)
}

func newLogger(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	collection string
	logger     *slog.Logger
}

// NewRepoLogger creates a RepoLogger for the given collection. A nil logger
// falls back to slog.Default().
func NewRepoLogger(collection string, logger *slog.Logger) *RepoLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepoLogger{collection: collection, logger: logger}
}

// LogOperation logs a successful repository call at debug level.
func (l *RepoLogger) LogOperation(ctx context.Context, operation string, attrs ...any) {
	args := append([]any{
		slog.String("collection", l.collection),
		slog.String("operation", operation),
	}, attrs...)
	l.logger.DebugContext(ctx, "repository "+operation, args...)
}

// LogError logs a failed repository call.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "repository error",
		slog.String("collection", l.collection),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
