package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	idTokenIssuerPrefix       = "https://securetoken.google.com/"
	sessionCookieIssuerPrefix = "https://session.firebase.google.com/"

	idTokenKeysURL       = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	sessionCookieKeysURL = "https://identitytoolkit.googleapis.com/v1/sessionCookiePublicKeys"
)

// tokenVerifier decides whether a raw token string is a well-formed,
// correctly signed, non-expired credential issued by the expected authority
// for one token kind (ID token or session cookie). It performs no I/O of its
// own; key material comes from the KeySource collaborator.
type tokenVerifier struct {
	projectID    string
	issuerPrefix string
	keys         KeySource

	// emulator skips signature verification: the platform emulator issues
	// unsigned tokens. Claim checks still apply.
	emulator bool

	parser *jwt.Parser
	now    func() time.Time
}

func newTokenVerifier(projectID, issuerPrefix string, keys KeySource, emulator bool) *tokenVerifier {
	return &tokenVerifier{
		projectID:    projectID,
		issuerPrefix: issuerPrefix,
		keys:         keys,
		emulator:     emulator,
		// Claims validation is disabled so that expired or mis-issued
		// tokens still decode and each check below reports its own
		// distinct failure kind.
		parser: jwt.NewParser(
			jwt.WithoutClaimsValidation(),
			jwt.WithValidMethods([]string{"RS256"}),
		),
		now: time.Now,
	}
}

// VerifyToken validates rawToken and returns its decoded claim set.
//
// Checks run in a fixed order and the first failure wins: format, signature,
// payload decoding, issuer, audience, expiry, subject. All failure kinds are
// the sentinels in errors.go.
func (tv *tokenVerifier) VerifyToken(ctx context.Context, rawToken string) (*Token, error) {
	// Cheap rejection before any cryptographic or network work.
	if rawToken == "" || strings.Count(rawToken, ".") != 2 {
		return nil, ErrInvalidFormat
	}

	claims := jwt.MapClaims{}
	if tv.emulator {
		if _, _, err := tv.parser.ParseUnverified(rawToken, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	} else {
		if _, err := tv.parser.ParseWithClaims(rawToken, claims, tv.keys.Keyfunc); err != nil {
			return nil, classifyParseError(err)
		}
	}

	token, err := newToken(claims)
	if err != nil {
		return nil, err
	}

	if token.Issuer != tv.issuerPrefix+tv.projectID {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIssuer, token.Issuer)
	}
	if token.Audience != tv.projectID {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAudience, token.Audience)
	}
	if !tv.now().Before(token.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	if token.Subject == "" {
		return nil, fmt.Errorf("%w: empty sub claim", ErrMalformedPayload)
	}

	return token, nil
}

// classifyParseError maps golang-jwt parse failures onto this package's
// failure kinds. Key-source failures pass through already wrapped in
// ErrKeyFetch; the caller cannot fix those by retrying with different input,
// but the underlying cause stays visible for logging.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, ErrKeyFetch):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrKeyFetch, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
}
