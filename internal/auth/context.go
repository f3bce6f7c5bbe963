package auth

import "context"

type contextKey string

const userContextKey contextKey = "auth-user"

// ContextWithUser attaches the authenticated user to the request context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, or nil when the
// request went through no auth check.
func UserFromContext(ctx context.Context) *User {
	user, ok := ctx.Value(userContextKey).(*User)
	if !ok {
		return nil
	}
	return user
}
