package http

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/pkg/cryptox"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

// stateTTL bounds the time a user can spend on the Google consent screen.
const stateTTL = 10 * time.Minute

// Error codes appended to the login page as ?error=.
const (
	errCodeSignin        = "OAuthSignin"
	errCodeOAuthCallback = "OAuthCallback"
	errCodeAccessDenied  = "AccessDenied"
	errCodeCallback      = "Callback"
)

type GoogleHandler struct {
	GoogleService  *service.GoogleService
	SessionService *service.SessionService
	Gate           *httpx.Gate
	Cookies        httpx.CookieOptions
}

// HandleSignIn starts the Google authorization code flow.
//
//	@Summary		Sign in with Google
//	@Description	Redirects to the Google consent screen. The random state and the callback URL are kept in a
//	@Description	short-lived HttpOnly cookie until Google redirects back.
//	@Tags			Auth
//	@Param			callbackURL	query	string	false	"Where to continue after sign-in (same origin only)"
//	@Success		307
//	@Router			/api/auth/signin/google [get].
func (h *GoogleHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		slogx.FromContext(r.Context()).Error("oauth state generation failed", slog.Any("err", err))
		h.redirectError(w, r, errCodeSignin)
		return
	}

	callback := h.Gate.SafeCallback(r, r.URL.Query().Get(httpx.CallbackParam))
	httpx.SetStateCookie(w, h.Cookies, encodeState(state, callback), stateTTL)

	httpx.NoCache(w)
	http.Redirect(w, r, h.GoogleService.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback finishes the Google flow and starts a session.
//
//	@Summary		Google OAuth callback
//	@Description	Validates state, exchanges the code, resolves the Google account to a user and sets the
//	@Description	session_token cookie. Failures redirect to /login?error=<code>.
//	@Tags			Auth
//	@Param			code	query	string	false	"Authorization code"
//	@Param			state	query	string	false	"State echoed by Google"
//	@Param			error	query	string	false	"Set by Google when the user declined"
//	@Success		302
//	@Router			/api/auth/callback/google [get].
func (h *GoogleHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	var stored string
	if c, err := r.Cookie(httpx.StateCookieName); err == nil {
		stored = c.Value
	}
	httpx.ClearStateCookie(w, h.Cookies)

	if q.Get("error") != "" {
		log.Info("google sign-in declined", slog.String("error", q.Get("error")))
		h.redirectError(w, r, errCodeAccessDenied)
		return
	}

	state, callback, ok := decodeState(stored)
	if !ok || !cryptox.EqualTokens(state, q.Get("state")) || q.Get("code") == "" {
		log.Warn("google callback rejected: state mismatch or missing code")
		h.redirectError(w, r, errCodeOAuthCallback)
		return
	}

	user, err := h.GoogleService.Authenticate(ctx, q.Get("code"))
	if err != nil {
		log.Warn("google sign-in failed", slog.Any("err", err))
		if errors.Is(err, service.ErrUnverifiedEmail) {
			h.redirectError(w, r, errCodeAccessDenied)
			return
		}
		h.redirectError(w, r, errCodeCallback)
		return
	}

	token, session, err := h.SessionService.Mint(user)
	if err != nil {
		log.Error("session mint failed", slog.Any("err", err))
		h.redirectError(w, r, errCodeCallback)
		return
	}

	httpx.SetSessionCookie(w, h.Cookies, token, session.Expires)
	log.Info("user signed in",
		slog.String("user_id", user.ID),
		slog.String("provider", service.ProviderGoogle),
	)

	httpx.NoCache(w)
	http.Redirect(w, r, h.Gate.SafeCallback(r, callback), http.StatusFound)
}

func (h *GoogleHandler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	httpx.NoCache(w)
	http.Redirect(w, r, h.Gate.Login()+"?error="+url.QueryEscape(code), http.StatusFound)
}

// encodeState packs the state token and callback into one cookie value. The
// token is base64url so it never contains the separator.
func encodeState(state, callback string) string {
	return state + "." + base64.RawURLEncoding.EncodeToString([]byte(callback))
}

func decodeState(v string) (state, callback string, ok bool) {
	state, enc, found := strings.Cut(v, ".")
	if !found || state == "" {
		return "", "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return "", "", false
	}
	return state, string(raw), true
}
