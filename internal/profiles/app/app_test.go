package app_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/profiles/internal/profiles/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, vars map[string]string) *app.Application {
	t.Helper()

	base := map[string]string{
		"PROFILES_AUTH_SECRET": secret,
		"DATABASE_FILE":        filepath.Join(t.TempDir(), "profiles.db"),
		"LOG_LEVEL":            "error",
	}
	for k, v := range vars {
		base[k] = v
	}

	cfg, err := app.LoadConfigFrom(base)
	require.NoError(t, err)

	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func TestApplication_Wiring(t *testing.T) {
	a := newApp(t, nil)
	h := a.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/signin/google", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "google routes are absent without credentials")
}

func TestApplication_BaseURLShapesCallback(t *testing.T) {
	a := newApp(t, map[string]string{"PROFILES_BASE_URL": "https://profiles.example.com"})

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://10.0.0.5:8080/api/user", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t,
		"/login?callbackURL="+url.QueryEscape("https://profiles.example.com/api/user"),
		rec.Header().Get("Location"),
	)
}

func TestApplication_GoogleEnabled(t *testing.T) {
	a := newApp(t, map[string]string{
		"GOOGLE_CLIENT_ID":     "id",
		"GOOGLE_CLIENT_SECRET": "secret",
		"GOOGLE_REDIRECT_URL":  "http://localhost:8080/api/auth/callback/google",
	})

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/signin/google", nil))
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", loc.Host)
}
