package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

// KeySource supplies the public keys used to check token signatures.
//
// Keyfunc resolves the verification key for a parsed but not yet verified
// token, keyed by its kid header. The authority rotates keys, so a source
// must tolerate multiple concurrently valid keys and may refresh itself when
// it sees an unknown kid. Failures should wrap ErrKeyFetch.
type KeySource interface {
	Keyfunc(token *jwt.Token) (interface{}, error)
}

const (
	// defaultKeyRefreshInterval bounds how stale a cached key set may get.
	defaultKeyRefreshInterval = time.Hour

	// keyRefreshTimeout bounds a single JWKS fetch.
	keyRefreshTimeout = 10 * time.Second
)

// JWKSKeySource is a KeySource backed by a JWKS endpoint, with background
// refresh and refresh-on-unknown-kid for key rotation.
type JWKSKeySource struct {
	jwks *keyfunc.JWKS
}

// Ensure JWKSKeySource implements KeySource interface
var _ KeySource = (*JWKSKeySource)(nil)

// NewJWKSKeySource fetches the key set at jwksURL and keeps it refreshed in
// the background until Close is called. A non-positive refreshInterval falls
// back to the default.
func NewJWKSKeySource(ctx context.Context, jwksURL string, refreshInterval time.Duration) (*JWKSKeySource, error) {
	if refreshInterval <= 0 {
		refreshInterval = defaultKeyRefreshInterval
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   refreshInterval,
		RefreshTimeout:    keyRefreshTimeout,
		RefreshRateLimit:  time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}

	return &JWKSKeySource{jwks: jwks}, nil
}

// Keyfunc resolves the verification key for token by its kid header.
func (s *JWKSKeySource) Keyfunc(token *jwt.Token) (interface{}, error) {
	key, err := s.jwks.Keyfunc(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	return key, nil
}

// Close stops the background refresh goroutine.
func (s *JWKSKeySource) Close() {
	s.jwks.EndBackground()
}
