package auth

import (
	"context"
	"fmt"
)

// TenantClient verifies tokens on behalf of a single tenant. It applies the
// full project-scoped verification, then additionally requires the token's
// tenant claim to equal the bound tenant ID. A token minted for tenant A is
// never accepted by a client bound to tenant B, however valid it is
// otherwise.
type TenantClient struct {
	base     *Client
	tenantID string
}

// AuthForTenant returns a client scoped to tenantID, sharing the underlying
// key and user sources.
func (c *Client) AuthForTenant(tenantID string) (*TenantClient, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required for a tenant-scoped client")
	}
	return &TenantClient{base: c, tenantID: tenantID}, nil
}

// TenantID returns the tenant this client is bound to.
func (tc *TenantClient) TenantID() string {
	return tc.tenantID
}

// VerifyIDToken verifies an ID token and requires it to belong to this
// client's tenant.
func (tc *TenantClient) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	return tc.checkTenant(tc.base.VerifyIDToken(ctx, idToken))
}

// VerifyIDTokenAndCheckRevoked verifies an ID token with a revocation check
// and requires it to belong to this client's tenant.
func (tc *TenantClient) VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*Token, error) {
	return tc.checkTenant(tc.base.VerifyIDTokenAndCheckRevoked(ctx, idToken))
}

// VerifySessionCookie verifies a session cookie and requires it to belong to
// this client's tenant.
func (tc *TenantClient) VerifySessionCookie(ctx context.Context, sessionCookie string) (*Token, error) {
	return tc.checkTenant(tc.base.VerifySessionCookie(ctx, sessionCookie))
}

// VerifySessionCookieAndCheckRevoked verifies a session cookie with a
// revocation check and requires it to belong to this client's tenant.
func (tc *TenantClient) VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*Token, error) {
	return tc.checkTenant(tc.base.VerifySessionCookieAndCheckRevoked(ctx, sessionCookie))
}

// checkTenant is the final gate before success: it runs after every other
// check, so tenant isolation cannot be bypassed by error ordering.
func (tc *TenantClient) checkTenant(token *Token, err error) (*Token, error) {
	if err != nil {
		return nil, err
	}
	if token.Firebase.Tenant != tc.tenantID {
		return nil, fmt.Errorf("%w: expected %q but got %q",
			ErrMismatchingTenantID, tc.tenantID, token.Firebase.Tenant)
	}
	return token, nil
}
