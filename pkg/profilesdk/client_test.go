package profilesdk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.Handler) *profilesdk.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := profilesdk.NewClient(srv.URL + "/")
	require.NoError(t, err)
	return c
}

func TestSignInKeepsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/callback/credentials", func(w http.ResponseWriter, r *http.Request) {
		var req profilesdk.SignInRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)

		http.SetCookie(w, &http.Cookie{Name: "session_token", Value: "tok", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profilesdk.SignInResponse{
			User: profilesdk.SessionUser{ID: "u1", Email: req.Email},
			URL:  "/profile",
		})
	})
	mux.HandleFunc("GET /api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session_token"); err != nil || c.Value != "tok" {
			_, _ = io.WriteString(w, `{}`)
			return
		}
		_, _ = io.WriteString(w, `{"user":{"id":"u1","name":"Ada","email":"ada@example.com"},"expires":"2030-01-01T00:00:00Z"}`)
	})
	c := newClient(t, mux)
	ctx := context.Background()

	anon, err := c.Session(ctx)
	require.NoError(t, err)
	assert.False(t, anon.Authenticated())

	out, err := c.SignIn(ctx, "ada@example.com", "secret1", "/profile")
	require.NoError(t, err)
	assert.Equal(t, "/profile", out.URL)

	sess, err := c.Session(ctx)
	require.NoError(t, err)
	require.True(t, sess.Authenticated())
	assert.Equal(t, "Ada", sess.User.Name)
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Incorrect Password"}`)
	}))

	_, err := c.SignIn(context.Background(), "ada@example.com", "nope", "")
	require.Error(t, err)

	var apiErr *profilesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incorrect Password", apiErr.Message)
	assert.True(t, profilesdk.IsStatus(err, http.StatusBadRequest))
}

func TestAPIErrorFallsBackToBody(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.GetLiveness(context.Background())
	var apiErr *profilesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestEditProfileSendsMultipart(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Grace", r.FormValue("name"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "me.png", hdr.Filename)
		assert.Equal(t, "png-bytes", string(body))

		_ = json.NewEncoder(w).Encode(profilesdk.User{ID: "u1", Name: "Grace", Image: "https://cdn/x.png"})
	}))

	u, err := c.EditProfile(context.Background(), "Grace", &profilesdk.Avatar{
		Filename: "me.png",
		Body:     strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.png", u.Image)
}

func TestGetProfileReportsRedirect(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login?callbackURL=x", http.StatusTemporaryRedirect)
	}))

	_, err := c.GetProfile(context.Background())
	var apiErr *profilesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTemporaryRedirect, apiErr.StatusCode)
	assert.Equal(t, "/login?callbackURL=x", apiErr.Message)
}
