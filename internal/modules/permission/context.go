package permission

import "context"

type contextKey struct{}

// WithContext attaches the caller's permission context to the request context.
func WithContext(ctx context.Context, pc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, pc)
}

// FromContext extracts the permission context set by the auth middleware.
// The second return is false on unauthenticated requests.
func FromContext(ctx context.Context) (Context, bool) {
	pc, ok := ctx.Value(contextKey{}).(Context)
	return pc, ok
}
