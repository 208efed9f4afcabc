package auth

import (
	"fmt"
	"time"
)

// Token represents the decoded, validated claim set of a verified credential.
// It is constructed once per verification call and never mutated afterwards.
type Token struct {
	// Subject is the stable user identifier (the sub claim).
	Subject string

	// UID mirrors Subject. The authority emits both sub and uid with the
	// same value; they are checked for equality at decode time.
	UID string

	Issuer   string
	Audience string

	// IssuedAt marks token minting; AuthTime marks when the user last
	// actively authenticated. They differ for refreshed tokens.
	IssuedAt  time.Time
	ExpiresAt time.Time
	AuthTime  time.Time

	// Firebase holds the authority's provider sub-claims.
	Firebase ProviderClaims

	// Claims holds all custom claims set by the developer, passed through
	// untouched. Reserved claims (sub, iss, aud, iat, exp, auth_time, uid,
	// firebase) are not duplicated here.
	Claims map[string]any
}

// ProviderClaims is the "firebase" sub-object of a token payload.
type ProviderClaims struct {
	SignInProvider string
	Tenant         string

	// Identities maps a provider name to the provider-specific identifiers
	// the user has linked (e.g. "email" -> ["a@example.com"]).
	Identities map[string]any
}

// reservedClaims are decoded into Token fields and excluded from the custom
// claim bag.
var reservedClaims = map[string]bool{
	"sub":       true,
	"uid":       true,
	"user_id":   true,
	"iss":       true,
	"aud":       true,
	"iat":       true,
	"exp":       true,
	"auth_time": true,
	"firebase":  true,
}

// newToken builds a Token from a decoded JWT payload, validating required
// claims eagerly so malformed payloads fail here rather than at first field
// access.
//
// Returns ErrMalformedPayload (wrapped with the offending claim) when a
// required claim is missing, has the wrong type, or violates a structural
// invariant.
func newToken(payload map[string]any) (*Token, error) {
	iss, err := stringClaim(payload, "iss")
	if err != nil {
		return nil, err
	}
	aud, err := stringClaim(payload, "aud")
	if err != nil {
		return nil, err
	}
	iat, err := timeClaim(payload, "iat")
	if err != nil {
		return nil, err
	}
	exp, err := timeClaim(payload, "exp")
	if err != nil {
		return nil, err
	}
	authTime, err := timeClaim(payload, "auth_time")
	if err != nil {
		return nil, err
	}

	sub, _ := payload["sub"].(string)
	uid, hasUID := payload["uid"].(string)
	if !hasUID {
		uid, hasUID = payload["user_id"].(string)
	}
	if hasUID && sub != "" && uid != sub {
		return nil, fmt.Errorf("%w: sub and uid claims differ", ErrMalformedPayload)
	}
	if !hasUID {
		uid = sub
	}

	// Structural invariants: a token cannot expire before it was minted,
	// and cannot claim an authentication later than its minting.
	if !exp.After(iat) {
		return nil, fmt.Errorf("%w: exp is not after iat", ErrMalformedPayload)
	}
	if authTime.After(iat) {
		return nil, fmt.Errorf("%w: auth_time is after iat", ErrMalformedPayload)
	}

	token := &Token{
		Subject:   sub,
		UID:       uid,
		Issuer:    iss,
		Audience:  aud,
		IssuedAt:  iat,
		ExpiresAt: exp,
		AuthTime:  authTime,
		Claims:    map[string]any{},
	}

	fb, ok := payload["firebase"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing firebase claim", ErrMalformedPayload)
	}
	token.Firebase.SignInProvider, _ = fb["sign_in_provider"].(string)
	token.Firebase.Tenant, _ = fb["tenant"].(string)
	token.Firebase.Identities, _ = fb["identities"].(map[string]any)

	for k, v := range payload {
		if !reservedClaims[k] {
			token.Claims[k] = v
		}
	}

	return token, nil
}

// stringClaim extracts a required string claim
func stringClaim(payload map[string]any, key string) (string, error) {
	v, ok := payload[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s claim", ErrMalformedPayload, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s claim is not a string", ErrMalformedPayload, key)
	}
	return s, nil
}

// timeClaim extracts a required seconds-since-epoch claim. JSON numbers
// decode as float64; issued tokens may also carry them as json.Number
// strings depending on the decoder, so both are accepted.
func timeClaim(payload map[string]any, key string) (time.Time, error) {
	v, ok := payload[key]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing %s claim", ErrMalformedPayload, key)
	}
	switch n := v.(type) {
	case float64:
		return time.Unix(int64(n), 0), nil
	case int64:
		return time.Unix(n, 0), nil
	case interface{ Int64() (int64, error) }: // json.Number
		sec, err := n.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s claim is not a timestamp", ErrMalformedPayload, key)
		}
		return time.Unix(sec, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s claim is not a timestamp", ErrMalformedPayload, key)
	}
}
