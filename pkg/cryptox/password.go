package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordCost is the bcrypt work factor used for every stored password.
	PasswordCost = 10

	// MinPasswordLength is enforced by callers at registration time, not by
	// HashPassword itself.
	MinPasswordLength = 6

	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// ErrPasswordEncoding is returned when a plaintext cannot be hashed (bcrypt
// refuses inputs longer than 72 bytes).
var ErrPasswordEncoding = errors.New("cryptox: password cannot be encoded")

// HashPassword returns a self-salting bcrypt digest of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPasswordEncoding, err)
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches the stored digest. The
// comparison is constant time. An empty or malformed digest never matches,
// which keeps accounts created through OAuth (no digest) out of the
// password path.
func ComparePassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
