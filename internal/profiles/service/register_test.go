package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hash, returns no hash", func(t *testing.T) {
		conn := newConn(t)
		svc := &service.RegistrationService{Conn: conn}

		u, err := svc.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "abcdef"})
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.Equal(t, "Ann", u.Name)
		require.Empty(t, u.PasswordHash)

		stored, err := mustStore(t, conn).Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotEqual(t, "abcdef", stored.PasswordHash)
		require.True(t, strings.HasPrefix(stored.PasswordHash, "$2a$10$"))
		require.True(t, cryptox.ComparePassword("abcdef", stored.PasswordHash))
	})

	t.Run("duplicate email", func(t *testing.T) {
		conn := newConn(t)
		svc := &service.RegistrationService{Conn: conn}
		first := register(t, conn, "Ann", "ann@x.com", "abcdef")

		_, err := svc.Register(ctx, service.RegisterInput{Name: "Ann Again", Email: "ANN@x.com", Password: "123456"})
		require.ErrorIs(t, err, domain.ErrEmailTaken)

		stored, err := mustStore(t, conn).Users().GetUserByEmail(ctx, "ann@x.com")
		require.NoError(t, err)
		require.Equal(t, first.ID, stored.ID)
		require.Equal(t, "Ann", stored.Name)
	})

	t.Run("duplicate is reported before password length", func(t *testing.T) {
		conn := newConn(t)
		register(t, conn, "Ann", "ann@x.com", "abcdef")

		svc := &service.RegistrationService{Conn: conn}
		_, err := svc.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "ab"})
		require.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("short password", func(t *testing.T) {
		conn := newConn(t)
		svc := &service.RegistrationService{Conn: conn}

		_, err := svc.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "ab"})
		require.ErrorIs(t, err, domain.ErrPasswordTooShort)
		require.Contains(t, err.Error(), "at least 6 characters")

		_, err = mustStore(t, conn).Users().GetUserByEmail(ctx, "ann@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("password over the bcrypt limit", func(t *testing.T) {
		conn := newConn(t)
		svc := &service.RegistrationService{Conn: conn}

		_, err := svc.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@x.com", Password: strings.Repeat("a", 80)})
		require.ErrorIs(t, err, domain.ErrPasswordTooLong)

		_, err = mustStore(t, conn).Users().GetUserByEmail(ctx, "ann@x.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		u, err := svc.Register(ctx, service.RegisterInput{Name: "Ann", Email: "ann@x.com", Password: strings.Repeat("a", cryptox.MaxPasswordBytes)})
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
	})

	t.Run("length counts characters", func(t *testing.T) {
		svc := &service.RegistrationService{Conn: newConn(t)}
		_, err := svc.Register(ctx, service.RegisterInput{Name: "Zoë", Email: "zoe@x.com", Password: "ééééé"})
		require.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := &service.RegistrationService{Conn: newConn(t)}
		for _, in := range []service.RegisterInput{
			{Email: "a@x.com", Password: "abcdef"},
			{Name: "A", Password: "abcdef"},
			{Name: "A", Email: "a@x.com"},
			{Name: "   ", Email: "a@x.com", Password: "abcdef"},
		} {
			_, err := svc.Register(ctx, in)
			require.ErrorIs(t, err, domain.ErrMissingFields)
		}
	})
}
