package jwtx

import "errors"

// Verifier validates a token and gives back its claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// ErrInvalidToken is the only error Verify returns. Bad signatures, malformed
// input, expiry and issuer mismatch are indistinguishable to callers.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claim validation errors, used internally and by the Claims helpers.
var (
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Secret configuration errors, fatal at startup.
var (
	ErrSecretMissing  = errors.New("jwtx: signing secret is not configured")
	ErrSecretTooShort = errors.New("jwtx: signing secret is too short")
)
