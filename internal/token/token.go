// Package token issues and verifies signed session tokens. Tokens carry only
// a subject and expiry; there is no refresh and no revocation list, so a
// leaked token stays valid until it expires.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session lifetime used when the config does not override it.
const DefaultTTL = 15 * 24 * time.Hour

// ErrInvalidToken covers malformed, badly signed, and expired tokens alike.
var ErrInvalidToken = errors.New("invalid token")

// Issuer signs session tokens with a symmetric secret fixed at process start.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer. The secret is required; ttl <= 0 falls back to
// DefaultTTL. Key rotation is out of scope.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured session lifetime.
func (i *Issuer) TTL() time.Duration {
	if i == nil {
		return 0
	}
	return i.ttl
}

// Issue returns a signed token encoding subject and expiry relative to now.
func (i *Issuer) Issue(subject string, now time.Time) (string, error) {
	if i == nil {
		return "", fmt.Errorf("issuer is not configured")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.UTC().Add(i.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses a token and returns its subject. Any verification failure
// maps to ErrInvalidToken so callers cannot distinguish why a token was bad.
func (i *Issuer) Verify(raw string) (string, error) {
	if i == nil {
		return "", ErrInvalidToken
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
