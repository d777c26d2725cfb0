// Package identity carries the authenticated user through a request context.
package identity

import "context"

type contextKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the authenticated user id stored in ctx.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(contextKey{}).(uint)
	return id, ok && id != 0
}
