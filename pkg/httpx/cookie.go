package httpx

import (
	"net/http"
	"strings"
	"time"
)

const (
	// SessionCookieName holds the signed session token.
	SessionCookieName = "session_token"
	// StateCookieName holds the OAuth state and callback between redirects.
	StateCookieName = "oauth_state"
)

// CookieOptions controls the attributes shared by every cookie we set.
type CookieOptions struct {
	Secure bool
	Path   string
}

func (o CookieOptions) path() string {
	if o.Path == "" {
		return "/"
	}
	return o.Path
}

// SetSessionCookie stores token on the client until expires.
func SetSessionCookie(w http.ResponseWriter, opts CookieOptions, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     opts.path(),
		Expires:  expires.UTC(),
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the client to drop its session token.
func ClearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	clearCookie(w, opts, SessionCookieName)
}

// SetStateCookie stores value for a short OAuth round trip.
func SetStateCookie(w http.ResponseWriter, opts CookieOptions, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    value,
		Path:     opts.path(),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearStateCookie drops the OAuth state cookie.
func ClearStateCookie(w http.ResponseWriter, opts CookieOptions) {
	clearCookie(w, opts, StateCookieName)
}

func clearCookie(w http.ResponseWriter, opts CookieOptions, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     opts.path(),
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the first candidate from TokensFromRequest, or "".
func TokenFromRequest(r *http.Request) string {
	if tokens := TokensFromRequest(r); len(tokens) > 0 {
		return tokens[0]
	}
	return ""
}

// TokensFromRequest returns the session cookie value followed by an
// Authorization: Bearer token, skipping whichever is absent. Callers try them
// in order so a stale cookie does not hide a valid bearer token.
func TokensFromRequest(r *http.Request) []string {
	var tokens []string
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		tokens = append(tokens, c.Value)
	}
	authz := r.Header.Get("Authorization")
	if len(authz) > len("Bearer ") && strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		if bearer := strings.TrimSpace(authz[len("Bearer "):]); bearer != "" {
			tokens = append(tokens, bearer)
		}
	}
	return tokens
}
