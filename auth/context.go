package auth

import (
	"context"
)

// contextKey type for context value keys
type contextKey string

const tokenKey contextKey = "token"

// WithToken adds a verified token to context
func WithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext retrieves the verified token from context
func TokenFromContext(ctx context.Context) (*Token, bool) {
	token, ok := ctx.Value(tokenKey).(*Token)
	return token, ok
}

// MustTokenFromContext retrieves the verified token or panics (for use after
// Middleware)
func MustTokenFromContext(ctx context.Context) *Token {
	token, ok := TokenFromContext(ctx)
	if !ok {
		panic("auth: token not found in context")
	}
	return token
}
