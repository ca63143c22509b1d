package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// newConn returns a lazily opened sqlite store in a temp dir.
func newConn(t *testing.T) *store.LazyConn {
	t.Helper()
	conn := store.NewLazyConn(sqlite.Open(filepath.Join(t.TempDir(), "profiles.db")))
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func mustStore(t *testing.T, conn store.Conn) store.Store {
	t.Helper()
	st, err := conn.Acquire(context.Background())
	require.NoError(t, err)
	return st
}

func register(t *testing.T, conn store.Conn, name, email, password string) domain.User {
	t.Helper()
	svc := &service.RegistrationService{Conn: conn}
	u, err := svc.Register(context.Background(), service.RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return u
}
