package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	profileshttp "github.com/aussiebroadwan/profiles/internal/profiles/http"
	"github.com/aussiebroadwan/profiles/internal/profiles/media"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/sqlite"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/jwtx"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testSecret = "http-test-secret-http-test-secret-0123"

var unlimited = httpx.RateLimitConfig{RequestsPerWindow: 10_000, Window: time.Minute, Burst: 10_000}

type harness struct {
	router *profileshttp.Router
	conn   store.Conn
	issuer *jwtx.Issuer
}

type option func(*profileshttp.Router)

func withAvatars(a service.AvatarStore) option {
	return func(r *profileshttp.Router) { r.ProfileService.Avatars = a }
}

func withStrictLimit(cfg httpx.RateLimitConfig) option {
	return func(r *profileshttp.Router) { r.Limits.Strict = cfg }
}

func withMaxUpload(n int64) option {
	return func(r *profileshttp.Router) { r.MaxUploadBytes = n }
}

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()

	conn := store.NewLazyConn(sqlite.Open(filepath.Join(t.TempDir(), "profiles.db")))
	t.Cleanup(func() { _ = conn.Close() })

	return newHarnessWithConn(t, conn, opts...)
}

func newHarnessWithConn(t *testing.T, conn store.Conn, opts ...option) *harness {
	t.Helper()

	issuer, err := jwtx.NewIssuer(testSecret, "profiles-test", time.Hour)
	require.NoError(t, err)

	gate := &httpx.Gate{
		PublicPrefixes: append(append([]string{}, httpx.DefaultPublicPrefixes...), "/livez", "/readyz", "/swagger/"),
		Verifier:       issuer,
	}

	identities := &service.IdentityService{Conn: conn}
	r := profileshttp.NewRouter(gate, httpx.CookieOptions{}, "test", conn, slogx.Discard())
	r.Limits = profileshttp.RateLimits{Strict: unlimited, Moderate: unlimited, Lenient: unlimited}
	r.IdentityService = identities
	r.RegistrationService = &service.RegistrationService{Conn: conn}
	r.ProfileService = &service.ProfileService{Conn: conn}
	r.SessionService = &service.SessionService{Tokens: issuer}
	r.MaxUploadBytes = media.DefaultMaxBytes

	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	return &harness{router: r, conn: conn, issuer: issuer}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[httpx.Message](t, rec).Message
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpx.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", httpx.SessionCookieName)
	return nil
}

// signUp registers and signs in, returning the session cookie.
func (h *harness) signUp(t *testing.T, name, email, password string) *http.Cookie {
	t.Helper()

	rec := h.do(jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(jsonRequest(t, http.MethodPost, "/api/auth/callback/credentials", map[string]string{
		"email": email, "password": password,
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

type downConn struct{ err error }

func (c downConn) Acquire(context.Context) (store.Store, error) { return nil, c.err }
