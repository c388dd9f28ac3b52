package context

import (
	stdctx "context"
)

// requestIDKey is the type used as a context key for storing request IDs.
// This is in a separate package to avoid circular dependencies.
type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the given request ID.
func WithRequestID(ctx stdctx.Context, id string) stdctx.Context {
	return stdctx.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "" if none was set.
func RequestID(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
