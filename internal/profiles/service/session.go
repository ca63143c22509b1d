package service

import (
	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/pkg/jwtx"
)

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	jwtx.Verifier
	Issue(identity jwtx.Identity) (string, jwtx.Claims, error)
}

type SessionService struct {
	Tokens TokenIssuer
}

// Mint issues a session token for a resolved user. Claims are built from the
// stored record so they always carry the internal id.
func (s *SessionService) Mint(u domain.User) (string, jwtx.Session, error) {
	token, claims, err := s.Tokens.Issue(jwtx.Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
	})
	if err != nil {
		return "", jwtx.Session{}, err
	}
	return token, jwtx.DeriveSession(claims), nil
}

// Current verifies token and returns the caller's session view.
func (s *SessionService) Current(token string) (jwtx.Session, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return jwtx.Session{}, domain.ErrInvalidToken
	}
	return jwtx.DeriveSession(claims), nil
}
