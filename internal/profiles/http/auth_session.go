package http

import (
	"net/http"

	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
)

type SessionHandler struct {
	SessionService *service.SessionService
	Gate           *httpx.Gate
	Cookies        httpx.CookieOptions
	GoogleEnabled  bool
}

// HandleSession returns the caller's session view.
//
//	@Summary		Current session
//	@Description	Returns {user, expires} for a valid session token and {} otherwise.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	profilesdk.Session	"Session view, or {} when signed out"
//	@Router			/api/auth/session [get].
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	for _, token := range httpx.TokensFromRequest(r) {
		if session, err := h.SessionService.Current(token); err == nil {
			httpx.WriteJSON(w, http.StatusOK, sessionView(session))
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

// HandleSignOut drops the session cookie. Tokens are stateless, so a copy
// kept elsewhere stays valid until it expires.
//
//	@Summary	Sign out
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	profilesdk.SignOutResponse	"Where to go next"
//	@Router		/api/auth/signout [post].
func (h *SessionHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w, h.Cookies)
	httpx.WriteJSON(w, http.StatusOK, profilesdk.SignOutResponse{URL: h.Gate.Login()})
}

// HandleProviders lists the enabled sign-in methods.
//
//	@Summary	Sign-in providers
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	profilesdk.ProvidersResponse	"Providers keyed by id"
//	@Router		/api/auth/providers [get].
func (h *SessionHandler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	out := make(profilesdk.ProvidersResponse)
	for _, p := range providers(h.Gate.Origin(r), h.GoogleEnabled) {
		out[p.ID] = p
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// providers lists credentials first, then Google when configured.
func providers(origin string, googleEnabled bool) []profilesdk.Provider {
	list := []profilesdk.Provider{{
		ID:          service.ProviderCredentials,
		Name:        "Credentials",
		Type:        "credentials",
		SignInURL:   origin + httpx.DefaultLoginPath,
		CallbackURL: origin + "/api/auth/callback/" + service.ProviderCredentials,
	}}
	if googleEnabled {
		list = append(list, profilesdk.Provider{
			ID:          service.ProviderGoogle,
			Name:        "Google",
			Type:        "oauth",
			SignInURL:   origin + "/api/auth/signin/" + service.ProviderGoogle,
			CallbackURL: origin + "/api/auth/callback/" + service.ProviderGoogle,
		})
	}
	return list
}
