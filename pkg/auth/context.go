package auth

import "context"

type userIDKey struct{}

// WithUserID stores the verified caller id in ctx.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFrom returns the caller id placed by the auth middleware.
func UserIDFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok && id != 0
}
