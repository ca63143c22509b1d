package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/cryptox"
	"github.com/aussiebroadwan/profiles/pkg/idx"
)

// IdentityService turns a sign-in attempt into a stored user. Local and
// external attempts are linked by email only: a password account and a
// Google account with the same address are the same user.
type IdentityService struct {
	Conn store.Conn
}

// Resolve authenticates attempt. The returned user never carries a password
// hash.
func (s *IdentityService) Resolve(ctx context.Context, attempt domain.AuthAttempt) (domain.User, error) {
	switch a := attempt.(type) {
	case domain.LocalAttempt:
		return s.resolveLocal(ctx, a)
	case domain.ExternalAttempt:
		return s.resolveExternal(ctx, a)
	default:
		return domain.User{}, fmt.Errorf("service: unsupported auth attempt %T", attempt)
	}
}

func (s *IdentityService) resolveLocal(ctx context.Context, a domain.LocalAttempt) (domain.User, error) {
	email := domain.NormalizeEmail(a.Email)
	if email == "" || a.Password == "" {
		return domain.User{}, domain.ErrMissingCredentials
	}

	st, err := s.Conn.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}

	u, err := st.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	// Accounts created through a provider have no hash and never match.
	if !u.HasPassword() || !cryptox.ComparePassword(a.Password, u.PasswordHash) {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return u.Public(), nil
}

func (s *IdentityService) resolveExternal(ctx context.Context, a domain.ExternalAttempt) (domain.User, error) {
	email := domain.NormalizeEmail(a.Email)
	if email == "" {
		return domain.User{}, domain.ErrMissingCredentials
	}

	st, err := s.Conn.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	users := st.Users()

	u, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		return u.Public(), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	name := strings.TrimSpace(a.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	u = domain.User{
		ID:    idx.New().String(),
		Name:  name,
		Email: email,
		Image: a.Image,
	}
	switch err := users.CreateUser(ctx, u); {
	case errors.Is(err, store.ErrAlreadyExists):
		// Lost a race with a concurrent first sign-in; use the winner.
		existing, err := users.GetUserByEmail(ctx, email)
		if err != nil {
			return domain.User{}, fmt.Errorf("lookup user: %w", err)
		}
		return existing.Public(), nil
	case err != nil:
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	created, err := users.GetUserByID(ctx, u.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return created.Public(), nil
}
