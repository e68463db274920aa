// Package requestctx carries per-request identifiers through context.
package requestctx

import "context"

type scopeIDContextKey struct{}

type requestIDContextKey struct{}

// WithScopeID stores the browser scope identifier in context.
func WithScopeID(ctx context.Context, scopeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeIDContextKey{}, scopeID)
}

// ScopeIDFromContext returns the browser scope identifier stored in context.
func ScopeIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(scopeIDContextKey{}).(string)
	return value
}

// WithRequestID stores the correlation id in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the correlation id stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}
