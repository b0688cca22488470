package common

import (
	"context"
	"strings"
)

// UserContext holds per-request user scoping injected via X-Vantage-* headers.
// The authentication bootstrap lives outside this service; by the time a
// request reaches the core, the user id is already established and is passed
// explicitly rather than read from ambient state.
type UserContext struct {
	UserID          string
	DisplayCurrency string
}

type contextKey int

const userContextKey contextKey = iota

// WithUserContext stores a UserContext in the request context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// UserContextFromContext retrieves the UserContext from context, or nil if absent.
func UserContextFromContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey).(*UserContext)
	return uc
}

// ResolveUserID returns the UserID from context, or "default" when no user
// context is present. Used by storage operations that need a user scope.
func ResolveUserID(ctx context.Context) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.UserID != "" {
		return uc.UserID
	}
	return "default"
}

// ResolveDisplayCurrency returns the user's display currency preference if
// present, otherwise the supplied config default.
func ResolveDisplayCurrency(ctx context.Context, configDefault string) string {
	if uc := UserContextFromContext(ctx); uc != nil && uc.DisplayCurrency != "" {
		return strings.ToUpper(uc.DisplayCurrency)
	}
	return configDefault
}
