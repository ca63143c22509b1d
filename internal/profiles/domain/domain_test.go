package domain_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONNeverCarriesHash(t *testing.T) {
	u := domain.User{ID: "u1", Name: "Ann", Email: "ann@x.com", PasswordHash: "$2a$10$secret"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret")
	require.NotContains(t, string(raw), "password")
}

func TestUser_Public(t *testing.T) {
	u := domain.User{ID: "u1", PasswordHash: "hash"}
	require.True(t, u.HasPassword())

	pub := u.Public()
	require.False(t, pub.HasPassword())
	require.Equal(t, "hash", u.PasswordHash, "original is untouched")
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "bob@x.com", domain.NormalizeEmail("  Bob@X.com\n"))
}

func TestAsError(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", domain.ErrInvalidCredentials)

	de, ok := domain.AsError(wrapped)
	require.True(t, ok)
	require.Equal(t, domain.KindAuth, de.Kind)
	require.Equal(t, "Incorrect Password", de.Message)
	require.ErrorIs(t, wrapped, domain.ErrInvalidCredentials)

	_, ok = domain.AsError(fmt.Errorf("boom"))
	require.False(t, ok)
}
