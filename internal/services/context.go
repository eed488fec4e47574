package services

import "context"

type contextKey string

const (
	postIDKey    contextKey = "post_id"
	requestIDKey contextKey = "request_id"
)

// WithPostID annotates context with the post unit identifier.
func WithPostID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, postIDKey, id)
}

// PostIDFromContext extracts the post unit identifier if present.
func PostIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(postIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
