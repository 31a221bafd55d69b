package common

import (
	"context"
)

// UserContext holds the authenticated identity for a request. It is populated
// by the bearer token middleware; when absent the request is anonymous.
type UserContext struct {
	UserID string
	Email  string
	Role   string
}

type contextKey int

const (
	userContextKey contextKey = iota
)

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or "" when no user context is present.
// Storage operations are ownership-scoped, so an empty ID must never reach them.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil {
		return uc.UserID
	}
	return ""
}
