package jwtx

import "time"

// SessionUser is what request handlers learn about the caller.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Session is the read-only projection of verified claims.
type Session struct {
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

// DeriveSession projects verified claims into a Session view.
func DeriveSession(c Claims) Session {
	s := Session{
		User: SessionUser{
			ID:    c.ID,
			Name:  c.Name,
			Email: c.Email,
			Image: c.Image,
		},
	}
	if c.ExpiresAt != nil {
		s.Expires = c.ExpiresAt.UTC()
	}
	return s
}
