package logging

import (
	"context"
	"log/slog"

	"postforge/internal/services"
)

// FieldPostID is the standardized structured logging key for post unit identifiers.
const FieldPostID = "post_id"

// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
const FieldCorrelationID = "correlation_id"

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.PostIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPostID, id))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
