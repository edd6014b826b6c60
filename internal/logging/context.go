package logging

import (
	"context"
	"log/slog"

	"storycast/internal/services"
)

// WithContext returns a logger enriched with any pipeline annotations carried
// by ctx (document id, stage, run id).
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	if id, ok := services.DocumentIDFromContext(ctx); ok {
		logger = logger.With(String("document_id", id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		logger = logger.With(String("stage", stage))
	}
	if run, ok := services.RunIDFromContext(ctx); ok {
		logger = logger.With(String("run_id", run))
	}
	return logger
}
