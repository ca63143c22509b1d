package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of a session token from issuance.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Identity is the subset of a stored identity that may travel inside a
// token. It deliberately has no password field.
type Identity struct {
	ID    string
	Name  string
	Email string
	Image string
}

// Claims are the signed session claims carried by the client. Subject always
// mirrors ID.
type Claims struct {
	jwt.RegisteredClaims

	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// NewSessionClaims builds claims for identity valid from now for ttl.
func NewSessionClaims(identity Identity, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Image: identity.Image,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
// A token without exp is rejected; every session must end.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateSubject requires the identity claims to be present and consistent.
func (c *Claims) ValidateSubject() error {
	if c.ID == "" || c.Subject != c.ID {
		return ErrInvalidClaim
	}
	return nil
}
