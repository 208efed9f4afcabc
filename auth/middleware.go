package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Verifier is the subset of Client used by the middleware. Both Client and
// TenantClient implement it.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)
}

var (
	_ Verifier = (*Client)(nil)
	_ Verifier = (*TenantClient)(nil)
)

// Middleware returns middleware that validates bearer ID tokens.
// Requires Authorization header: Bearer <token>
// Returns 401 if the token is missing or invalid, 403 if the user is
// disabled or the token belongs to another tenant.
// On success, adds the verified Token to context.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			// Check for "Bearer " prefix (case-sensitive)
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			idToken := strings.TrimPrefix(authHeader, "Bearer ")
			if idToken == "" {
				writeJSONError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			token, err := verifier.VerifyIDToken(r.Context(), idToken)
			if err != nil {
				status, message := statusForError(err)
				writeJSONError(w, status, message)
				return
			}

			// Add token to context and continue
			ctx := WithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusForError maps a verification failure to a client-facing status and
// message. Disabled accounts and tenant mismatches are authorization
// failures (403); everything else means the credential itself is bad (401).
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, ErrIDTokenRevoked), errors.Is(err, ErrSessionCookieRevoked):
		return http.StatusUnauthorized, "Token revoked"
	case errors.Is(err, ErrUserDisabled):
		return http.StatusForbidden, "User disabled"
	case errors.Is(err, ErrMismatchingTenantID):
		return http.StatusForbidden, "Wrong tenant"
	default:
		return http.StatusUnauthorized, "Invalid token"
	}
}

// writeJSONError writes a JSON error response with the given status code and message
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}
