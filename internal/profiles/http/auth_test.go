package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	h := newHarness(t)

	rec := h.do(jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ada", "email": " Ada@Example.com ", "password": "secret1",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	raw := decode[map[string]any](t, rec)
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "passwordHash")

	user := decode[profilesdk.User](t, rec)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	// Registering does not start a session.
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, httpx.SessionCookieName, c.Name)
	}
}

func TestRegister_Rejections(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "Ada", "ada@example.com", "secret1")

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing fields", map[string]string{"email": "x@example.com"}, "Name, Email and Password are required!"},
		{"duplicate before length", map[string]string{"name": "A", "email": "ada@example.com", "password": "1"}, "User already exist!"},
		{"short password", map[string]string{"name": "B", "email": "b@example.com", "password": "12345"}, "Password must be at least 6 characters!"},
		{"long password", map[string]string{"name": "C", "email": "c@example.com", "password": strings.Repeat("a", 80)}, "Password must be at most 72 bytes!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(jsonRequest(t, http.MethodPost, "/api/auth/register", tc.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, message(t, rec))
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := h.do(req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", message(t, rec))
	})
}

func TestRegister_StoreDown(t *testing.T) {
	h := newHarnessWithConn(t, downConn{err: assert.AnError})

	rec := h.do(jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret1",
	}))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(message(t, rec), "Register error: "), message(t, rec))
}

func TestCredentialsSignIn(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "Ada", "ada@example.com", "secret1")

	rec := h.do(jsonRequest(t, http.MethodPost, "/api/auth/callback/credentials", map[string]string{
		"email": "ADA@example.com", "password": "secret1", "callbackURL": "http://example.com/api/user",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode[profilesdk.SignInResponse](t, rec)
	assert.Equal(t, "Ada", out.User.Name)
	assert.Equal(t, "ada@example.com", out.User.Email)
	assert.Equal(t, "http://example.com/api/user", out.URL)

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	claims, err := h.issuer.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.ID)
}

func TestCredentialsSignIn_Form(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "Ada", "ada@example.com", "secret1")

	form := url.Values{"email": {"ada@example.com"}, "password": {"secret1"}, "callbackURL": {"https://evil.example/"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := h.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/", decode[profilesdk.SignInResponse](t, rec).URL)
}

func TestCredentialsSignIn_Failures(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "Ada", "ada@example.com", "secret1")

	cases := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing password", map[string]string{"email": "ada@example.com"}, "Email or Password is not found"},
		{"unknown email", map[string]string{"email": "nobody@example.com", "password": "secret1"}, "User not found"},
		{"wrong password", map[string]string{"email": "ada@example.com", "password": "secret2"}, "Incorrect Password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(jsonRequest(t, http.MethodPost, "/api/auth/callback/credentials", tc.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, message(t, rec))
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestCredentialsSignIn_RateLimited(t *testing.T) {
	h := newHarness(t, withStrictLimit(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}))

	body := map[string]string{"email": "ada@example.com", "password": "nope12"}
	first := h.do(jsonRequest(t, http.MethodPost, "/api/auth/callback/credentials", body))
	require.Equal(t, http.StatusBadRequest, first.Code)

	second := h.do(jsonRequest(t, http.MethodPost, "/api/auth/callback/credentials", body))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	// A different email is a different bucket.
	other := h.do(jsonRequest(t, http.MethodPost, "/api/auth/callback/credentials", map[string]string{
		"email": "grace@example.com", "password": "nope12",
	}))
	require.Equal(t, http.StatusBadRequest, other.Code)
}

func TestSessionEndpoint(t *testing.T) {
	h := newHarness(t)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: "garbage"})
	rec = h.do(req)
	assert.JSONEq(t, `{}`, rec.Body.String())

	cookie := h.signUp(t, "Ada", "ada@example.com", "secret1")
	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	rec = h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	session := decode[profilesdk.Session](t, rec)
	require.True(t, session.Authenticated())
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.False(t, session.Expires.IsZero())
	assert.NotContains(t, rec.Body.String(), "password")

	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: httpx.SessionCookieName, Value: "garbage"})
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	rec = h.do(req)
	assert.Equal(t, "ada@example.com", decode[profilesdk.Session](t, rec).User.Email)
}

func TestSignOut(t *testing.T) {
	h := newHarness(t)

	rec := h.do(httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/login", decode[profilesdk.SignOutResponse](t, rec).URL)

	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestProviders(t *testing.T) {
	h := newHarness(t)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/api/auth/providers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[profilesdk.ProvidersResponse](t, rec)
	require.Len(t, out, 1)
	assert.Equal(t, "credentials", out["credentials"].Type)
	assert.Equal(t, "http://example.com/api/auth/callback/credentials", out["credentials"].CallbackURL)
}
