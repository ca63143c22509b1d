package profiles_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/app"
	"github.com/aussiebroadwan/profiles/pkg/idx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	authSecret   = "e2e-profiles-secret-e2e-profiles-secret"
	testName     = "Ann Example"
	testPassword = "correct-horse"
)

// relaxedLimits keeps most flows clear of the rate limiter.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
	"RATELIMIT_LENIENT_REQUESTS":  "1000",
	"RATELIMIT_LENIENT_BURST":     "1000",
}

// setupService starts the full application on an httptest server backed by a
// temporary sqlite file.
func setupService(t *testing.T, overrides ...map[string]string) (string, func()) {
	t.Helper()

	vars := map[string]string{
		"PROFILES_AUTH_SECRET": authSecret,
		"DATABASE_FILE":        filepath.Join(t.TempDir(), "profiles.db"),
		"ENV":                  "test",
		"LOG_LEVEL":            "error",
	}
	for _, o := range overrides {
		for k, v := range o {
			vars[k] = v
		}
	}

	cfg, err := app.LoadConfigFrom(vars)
	require.NoError(t, err)

	a, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler())

	cleanup := func() {
		srv.Close()
		if err := a.Shutdown(); err != nil {
			t.Logf("failed to shut down application: %v", err)
		}
	}

	return srv.URL, cleanup
}

// setupMongoService starts the application against a throwaway mongo:7.
func setupMongoService(t *testing.T) (string, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo container test in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForListeningPort("27017/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	baseURL, stop := setupService(t, relaxedLimits, map[string]string{
		"STORE_DRIVER":     "mongo",
		"MONGODB_URL":      fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		"MONGODB_DATABASE": "profiles_e2e",
	})

	cleanup := func() {
		stop()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

func newClient(t *testing.T, baseURL string) *profilesdk.Client {
	t.Helper()
	client, err := profilesdk.NewClient(baseURL)
	require.NoError(t, err)
	return client
}

// uniqueEmail keeps accounts from colliding between subtests.
func uniqueEmail() string {
	return "user-" + strings.ToLower(idx.New().String()) + "@example.com"
}

// registerAndSignIn creates an account and returns a client holding its session.
func registerAndSignIn(t *testing.T, baseURL string) (*profilesdk.Client, *profilesdk.User) {
	t.Helper()
	ctx := context.Background()
	client := newClient(t, baseURL)

	user, err := client.Register(ctx, profilesdk.RegisterRequest{
		Name:     testName,
		Email:    uniqueEmail(),
		Password: testPassword,
	})
	require.NoError(t, err, "Register should succeed")
	require.NotEmpty(t, user.ID)

	_, err = client.SignIn(ctx, user.Email, testPassword, "")
	require.NoError(t, err, "Sign in should succeed")

	return client, user
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *profilesdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertStatus checks err is an API error carrying status.
func assertStatus(t *testing.T, err error, status int, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.True(t, profilesdk.IsStatus(err, status), "%s - expected status %d, got: %v", context, status, err)
}
