package cloudalign

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/cloudalign/model"
)

// Logger wraps slog.Logger with cloudalign-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithPair adds source/target fields for one registration pair.
func (l *Logger) WithPair(idx model.Index) *Logger {
	return &Logger{Logger: l.Logger.With(
		"source", idx.Source.String(),
		"target", idx.Target.String(),
	)}
}

// LogPair logs the outcome of one registration pair. The pair's identity is
// carried by the logger itself; attach it with WithPair first.
func (l *Logger) LogPair(ctx context.Context, result *model.RegistrationResult, err error) {
	if err != nil {
		l.WarnContext(ctx, "pair registration failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "pair registered",
		"fitness", result.Fitness,
		"inlier_rmse", result.InlierRMSE,
		"matches", len(result.Matches),
	)
}

// LogBatch logs the completion of a whole batch run.
func (l *Logger) LogBatch(ctx context.Context, total, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"total", total,
			"failed", failed,
			"success", total-failed,
		)
		return
	}
	l.InfoContext(ctx, "batch completed",
		"total", total,
	)
}
