package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockVerifier implements Verifier for testing
type mockVerifier struct {
	token *Token
	err   error
}

func (m *mockVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

func TestMiddleware_MissingAuthorizationHeader(t *testing.T) {
	middleware := Middleware(&mockVerifier{})

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called when authorization header is missing")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response["error"] != "Authorization header required" {
		t.Errorf("expected error 'Authorization header required', got '%s'", response["error"])
	}
}

func TestMiddleware_InvalidAuthorizationFormat(t *testing.T) {
	middleware := Middleware(&mockVerifier{})

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called when authorization format is invalid")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "missing bearer prefix",
			header: "some-token",
		},
		{
			name:   "lowercase bearer",
			header: "bearer some-token",
		},
		{
			name:   "only bearer prefix",
			header: "Bearer ",
		},
		{
			name:   "empty after bearer",
			header: "Bearer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
			}
		})
	}
}

func TestMiddleware_FailureStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid signature",
			err:        ErrInvalidSignature,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:       "expired token",
			err:        ErrTokenExpired,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token expired",
		},
		{
			name:       "revoked token",
			err:        ErrIDTokenRevoked,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token revoked",
		},
		{
			name:       "disabled user",
			err:        ErrUserDisabled,
			wantStatus: http.StatusForbidden,
			wantError:  "User disabled",
		},
		{
			name:       "wrong tenant",
			err:        ErrMismatchingTenantID,
			wantStatus: http.StatusForbidden,
			wantError:  "Wrong tenant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := Middleware(&mockVerifier{err: tt.err})
			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called on verification failure")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response["error"] != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, response["error"])
			}
		})
	}
}

func TestMiddleware_Success(t *testing.T) {
	verified := &Token{Subject: "user-1", UID: "user-1"}
	middleware := Middleware(&mockVerifier{token: verified})

	called := false
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		token := MustTokenFromContext(r.Context())
		if token.Subject != "user-1" {
			t.Errorf("context token Subject = %q, want %q", token.Subject, "user-1")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("handler was not called for a valid token")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestTokenFromContext_Missing(t *testing.T) {
	if _, ok := TokenFromContext(context.Background()); ok {
		t.Error("TokenFromContext() on empty context should report false")
	}
}
