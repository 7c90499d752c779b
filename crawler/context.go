package crawler

import (
	"context"

	"go.uber.org/zap"
)

type ContextKey string

const RunIDKey ContextKey = "run_id"

// GetContextLogger creates a logger with context information
func GetContextLogger(ctx context.Context, baseLogger *zap.Logger) *zap.Logger {
	if runID := GetRunID(ctx); runID != "" {
		return baseLogger.With(zap.String("run_id", runID))
	}
	return baseLogger
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RunIDKey, id)
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}
