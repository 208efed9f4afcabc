package auth

import "errors"

// Error definitions
//
// Every verification failure is a distinguishable sentinel so that callers
// (HTTP middleware, CLIs) can map each kind to the right client-facing
// status with errors.Is. Nothing here is retryable without changing the
// input.
var (
	// ErrInvalidFormat is returned when the input is empty or not shaped
	// like a JWT. No network call is made before this check.
	ErrInvalidFormat = errors.New("token has invalid format")

	// ErrInvalidSignature is returned when the token is well-formed but not
	// signed by any key the signing-key source knows about.
	ErrInvalidSignature = errors.New("token has invalid signature")

	// ErrInvalidIssuer is returned when the iss claim does not match the
	// expected authority for the requested token kind.
	ErrInvalidIssuer = errors.New("token has invalid issuer")

	// ErrInvalidAudience is returned when the aud claim does not equal the
	// project ID.
	ErrInvalidAudience = errors.New("token has invalid audience")

	// ErrTokenExpired is returned when the token's expiry is in the past.
	// Distinguished from the other validation failures so UIs can prompt a
	// refresh instead of a hard failure.
	ErrTokenExpired = errors.New("token has expired")

	// ErrMalformedPayload is returned when a decoded payload is missing a
	// required claim or violates a structural invariant. Not expected for
	// tokens minted by a conformant authority.
	ErrMalformedPayload = errors.New("token has malformed payload")

	// ErrKeyFetch is returned when the signing-key source could not supply
	// a verification key. The underlying cause is wrapped for logging.
	ErrKeyFetch = errors.New("failed to fetch signing keys")

	// ErrUserNotFound is returned during a revocation check when the
	// token's subject no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserDisabled is returned when the account has been
	// administratively disabled.
	ErrUserDisabled = errors.New("user is disabled")

	// ErrIDTokenRevoked is returned when an ID token's auth time predates
	// the account's valid-since cutoff.
	ErrIDTokenRevoked = errors.New("ID token has been revoked")

	// ErrSessionCookieRevoked is the session-cookie counterpart of
	// ErrIDTokenRevoked.
	ErrSessionCookieRevoked = errors.New("session cookie has been revoked")

	// ErrMismatchingTenantID is returned by a tenant-scoped client when the
	// token was issued for a different tenant.
	ErrMismatchingTenantID = errors.New("token has mismatching tenant ID")
)
