package auth

import (
	"context"
	"time"
)

// UserRevocationRecord is the subset of a user record needed to decide
// whether a structurally valid credential must still be rejected. It is
// owned by the user-management backend; this package only reads it.
type UserRevocationRecord struct {
	// Disabled reports whether the account has been administratively
	// disabled.
	Disabled bool

	// TokensValidAfter is the valid-since cutoff: credentials whose auth
	// time predates it have been revoked. The zero value means no cutoff
	// has ever been set.
	TokensValidAfter time.Time
}

// UserSource fetches the current revocation record for a user.
//
// Implementations must return ErrUserNotFound (possibly wrapped) when the
// user no longer exists, and must not cache records across calls: every
// revocation check needs the freshest disabled/valid-since state.
type UserSource interface {
	RevocationRecord(ctx context.Context, uid string) (*UserRevocationRecord, error)
}

// checkNotRevoked decides whether a verified token should be honored given
// the account's current revocation record. revokedErr is the failure kind to
// report for a stale auth time (ErrIDTokenRevoked or ErrSessionCookieRevoked
// depending on the entry point).
//
// A disabled account always rejects, regardless of the valid-since cutoff.
// The auth-time comparison truncates both sides to second granularity: the
// authority mints second-precision timestamps, and sub-second drift from any
// serialization layer must not produce a false revocation.
func checkNotRevoked(token *Token, record *UserRevocationRecord, revokedErr error) error {
	if record.Disabled {
		return ErrUserDisabled
	}
	if record.TokensValidAfter.IsZero() {
		return nil
	}
	authTime := token.AuthTime.Truncate(time.Second)
	validSince := record.TokensValidAfter.Truncate(time.Second)
	if authTime.Before(validSince) {
		return revokedErr
	}
	return nil
}
