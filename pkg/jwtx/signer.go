package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum accepted HS256 secret length in bytes.
const MinSecretLength = 32

// Issuer mints and verifies HS256 session tokens with a server-held secret.
// It keeps no per-token state, so a token stays valid until it expires.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer validates the secret and returns an Issuer. A ttl of zero means
// DefaultSessionTTL.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrSecretTooShort, MinSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL reports the lifetime given to issued tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a fresh token for identity.
func (i *Issuer) Issue(identity Identity) (string, Claims, error) {
	claims := NewSessionClaims(identity, i.issuer, i.ttl, i.now().UTC())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwtx: sign: %w", err)
	}
	return token, claims, nil
}

// Verify checks signature, structure, issuer and expiry. Any failure yields
// ErrInvalidToken.
func (i *Issuer) Verify(tokenStr string) (Claims, error) {
	if tokenStr == "" {
		return Claims{}, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if claims.ValidateIssuer(i.issuer) != nil ||
		claims.ValidateExpiry(i.now().UTC()) != nil ||
		claims.ValidateSubject() != nil {
		return Claims{}, ErrInvalidToken
	}

	return *claims, nil
}
