// Package auth implements ID-token and session-cookie verification for a
// cloud identity platform: cryptographic validation of bearer credentials,
// claim checks (issuer, audience, expiry, tenant), and an opt-in revocation
// check against the platform's valid-since cutoff.
package auth

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
)

// Config holds the configuration for a verification Client.
type Config struct {
	// ProjectID is the identity platform project the client verifies
	// tokens for. Required.
	ProjectID string

	// EmulatorHost, when non-empty, points the client at a local
	// identity-platform emulator ("host:port"). The emulator issues
	// unsigned tokens, so signature verification is skipped; all claim
	// checks still apply.
	EmulatorHost string

	// KeyRefreshInterval bounds how stale the cached signing-key sets may
	// get. Zero means the package default.
	KeyRefreshInterval time.Duration

	// ClientOptions configure the authorized HTTP transport used to reach
	// the platform backend (credentials file, custom endpoint, ...).
	ClientOptions []option.ClientOption

	// IDTokenKeys and SessionCookieKeys override the signing-key sources.
	// When nil, JWKS sources for the platform's public endpoints are
	// created and owned by the client.
	IDTokenKeys       KeySource
	SessionCookieKeys KeySource

	// Users overrides the revocation-record source. When nil, a REST
	// source backed by the platform's account-lookup endpoint is used.
	Users UserSource
}

// Client verifies ID tokens and session cookies for one project.
//
// Each verification call is self-contained and stateless; concurrent calls
// are safe and share only the key sources and the user source, which manage
// their own concurrency.
type Client struct {
	projectID string

	idTokenVerifier *tokenVerifier
	cookieVerifier  *tokenVerifier

	users UserSource

	// ownedKeys are JWKS sources created by NewClient, stopped on Close.
	ownedKeys []*JWKSKeySource
}

// NewClient creates a verification client for the project in cfg.
//
// Parameters:
//   - ctx: Context governing key-source initialization
//   - cfg: Client configuration; cfg.ProjectID is required
//
// Returns:
//   - Client ready for concurrent use
//   - Error if the configuration is invalid or a collaborator cannot be built
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil || cfg.ProjectID == "" {
		return nil, fmt.Errorf("project ID is required to verify tokens")
	}

	emulator := cfg.EmulatorHost != ""
	c := &Client{projectID: cfg.ProjectID}

	idTokenKeys := cfg.IDTokenKeys
	cookieKeys := cfg.SessionCookieKeys
	if !emulator {
		if idTokenKeys == nil {
			src, err := NewJWKSKeySource(ctx, idTokenKeysURL, cfg.KeyRefreshInterval)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize ID token key source: %w", err)
			}
			c.ownedKeys = append(c.ownedKeys, src)
			idTokenKeys = src
		}
		if cookieKeys == nil {
			src, err := NewJWKSKeySource(ctx, sessionCookieKeysURL, cfg.KeyRefreshInterval)
			if err != nil {
				c.Close()
				return nil, fmt.Errorf("failed to initialize session cookie key source: %w", err)
			}
			c.ownedKeys = append(c.ownedKeys, src)
			cookieKeys = src
		}
	}

	c.idTokenVerifier = newTokenVerifier(cfg.ProjectID, idTokenIssuerPrefix, idTokenKeys, emulator)
	c.cookieVerifier = newTokenVerifier(cfg.ProjectID, sessionCookieIssuerPrefix, cookieKeys, emulator)

	c.users = cfg.Users
	if c.users == nil {
		users, err := newRESTUserSource(ctx, cfg.ProjectID, cfg.EmulatorHost, cfg.ClientOptions...)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize user source: %w", err)
		}
		c.users = users
	}

	return c, nil
}

// ProjectID returns the project this client verifies tokens for.
func (c *Client) ProjectID() string {
	return c.projectID
}

// Close stops the background key refreshers owned by the client. Clients
// configured with external key sources have nothing to stop.
func (c *Client) Close() {
	for _, src := range c.ownedKeys {
		src.Close()
	}
	c.ownedKeys = nil
}

// VerifyIDToken verifies the signature and claims of an ID token and returns
// its decoded claim set. It does not check whether the token has been
// revoked; use VerifyIDTokenAndCheckRevoked for that.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	return c.verify(ctx, c.idTokenVerifier, idToken, false, ErrIDTokenRevoked)
}

// VerifyIDTokenAndCheckRevoked verifies an ID token and additionally fetches
// the subject's current revocation record to reject revoked tokens and
// disabled users. This costs one backend round trip per call; the record is
// never cached, so the check always sees the freshest state.
func (c *Client) VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*Token, error) {
	return c.verify(ctx, c.idTokenVerifier, idToken, true, ErrIDTokenRevoked)
}

// VerifySessionCookie verifies the signature and claims of a session cookie
// and returns its decoded claim set, without a revocation check.
func (c *Client) VerifySessionCookie(ctx context.Context, sessionCookie string) (*Token, error) {
	return c.verify(ctx, c.cookieVerifier, sessionCookie, false, ErrSessionCookieRevoked)
}

// VerifySessionCookieAndCheckRevoked verifies a session cookie and
// additionally checks it against the subject's current revocation record.
func (c *Client) VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*Token, error) {
	return c.verify(ctx, c.cookieVerifier, sessionCookie, true, ErrSessionCookieRevoked)
}

// verify composes structural verification with the optional revocation
// check. A structurally invalid token short-circuits before any user fetch.
// The revocation check never mutates the claim set.
func (c *Client) verify(ctx context.Context, tv *tokenVerifier, rawToken string, checkRevoked bool, revokedErr error) (*Token, error) {
	token, err := tv.VerifyToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if !checkRevoked {
		return token, nil
	}

	record, err := c.users.RevocationRecord(ctx, token.Subject)
	if err != nil {
		return nil, err
	}
	if err := checkNotRevoked(token, record, revokedErr); err != nil {
		return nil, err
	}

	return token, nil
}
