package semvec

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with build-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000),
		})),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{Logger: l.Logger.With("dimension", dim)}
}

// WithVectorType adds a vector_type field to the logger.
func (l *Logger) WithVectorType(typ string) *Logger {
	return &Logger{Logger: l.Logger.With("vector_type", typ)}
}

// WithWorkers adds a workers field to the logger.
func (l *Logger) WithWorkers(n int) *Logger {
	return &Logger{Logger: l.Logger.With("workers", n)}
}

// LogHeader logs the header of a doc-vector stream.
func (l *Logger) LogHeader(ctx context.Context, header string, err error) {
	if err != nil {
		l.WarnContext(ctx, "stream header not understood",
			"header", header,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "stream header", "header", header)
}

// LogHeaderMismatch logs a stream header that disagrees with the configuration.
func (l *Logger) LogHeaderMismatch(ctx context.Context, err error) {
	l.WarnContext(ctx, "stream header does not match configuration", "error", err)
}

// LogVocabulary logs the outcome of the vocabulary scan.
func (l *Logger) LogVocabulary(ctx context.Context, seen, kept int) {
	l.InfoContext(ctx, "vocabulary filtered",
		"seen", seen,
		"kept", kept,
	)
}

// LogStreamExhausted logs a doc-vector stream that ended before the index.
func (l *Logger) LogStreamExhausted(ctx context.Context, read, expected int, truncated bool) {
	l.WarnContext(ctx, "doc vectors less than total number of documents",
		"read", read,
		"expected", expected,
		"truncated_record", truncated,
	)
}

// LogBuild logs a finished build.
func (l *Logger) LogBuild(ctx context.Context, stats *BuildStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed", "error", err)
		return
	}
	l.InfoContext(ctx, "build completed",
		"terms", stats.Terms,
		"documents", stats.Documents,
		"lookup_misses", stats.LookupMisses,
		"untouched_terms", stats.UntouchedTerms,
		"duration", stats.Duration.Round(time.Millisecond),
	)
}
