package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/cryptox"
	"github.com/aussiebroadwan/profiles/pkg/idx"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegistrationService struct {
	Conn store.Conn
}

// Register creates a local user. A taken email is reported before the
// password policy is checked.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return domain.User{}, domain.ErrMissingFields
	}

	st, err := s.Conn.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	users := st.Users()

	_, err = users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.User{}, domain.ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if utf8.RuneCountInString(in.Password) < cryptox.MinPasswordLength {
		return domain.User{}, domain.ErrPasswordTooShort
	}
	if len(in.Password) > cryptox.MaxPasswordBytes {
		return domain.User{}, domain.ErrPasswordTooLong
	}

	hash, err := cryptox.HashPassword(in.Password)
	if errors.Is(err, cryptox.ErrPasswordEncoding) {
		return domain.User{}, domain.ErrPasswordTooLong
	}
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	created, err := users.GetUserByID(ctx, u.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return created.Public(), nil
}
