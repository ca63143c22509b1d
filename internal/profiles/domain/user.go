package domain

import (
	"strings"
	"time"
)

// User is a stored identity. A user created through an external provider has
// no PasswordHash and can never sign in with a password.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPassword reports whether the user can sign in with local credentials.
func (u User) HasPassword() bool { return u.PasswordHash != "" }

// Public returns a copy with the password hash cleared.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// NormalizeEmail is applied to every email before it is stored or looked up.
// Email is the only key linking local and external identities.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
