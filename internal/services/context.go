package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	chunkKey     contextKey = "chunk"
	providerKey  contextKey = "provider"
	requestIDKey contextKey = "request_id"
)

// WithRunID annotates context with the translation run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the translation run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithChunk annotates context with the 1-based chunk number being translated.
func WithChunk(ctx context.Context, chunk int) context.Context {
	return context.WithValue(ctx, chunkKey, chunk)
}

// ChunkFromContext returns the chunk number if present.
func ChunkFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(chunkKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithProvider annotates context with the translation provider name.
func WithProvider(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, providerKey, name)
}

// ProviderFromContext returns the provider name if present.
func ProviderFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(providerKey).(string); ok && v != "" {
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
