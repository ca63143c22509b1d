package http

import (
	"net/http"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
)

// PagesHandler serves the entry points a browser lands on. They describe
// what a client should render rather than rendering it.
type PagesHandler struct {
	Gate          *httpx.Gate
	GoogleEnabled bool
}

// HandleLogin describes the sign-in page.
//
//	@Summary		Sign-in entry point
//	@Description	Lists the enabled providers and echoes the callbackURL the gate attached, plus any error
//	@Description	code from a failed OAuth round trip.
//	@Tags			Pages
//	@Produce		json
//	@Param			callbackURL	query		string	false	"Originally requested URL"
//	@Param			error		query		string	false	"Error code from a failed sign-in"
//	@Success		200			{object}	profilesdk.PageResponse
//	@Router			/login [get].
func (h *PagesHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "login")
}

// HandleRegister describes the registration page.
//
//	@Summary	Registration entry point
//	@Tags		Pages
//	@Produce	json
//	@Success	200	{object}	profilesdk.PageResponse
//	@Router		/register [get].
func (h *PagesHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "register")
}

func (h *PagesHandler) page(w http.ResponseWriter, r *http.Request, name string) {
	q := r.URL.Query()
	resp := profilesdk.PageResponse{
		Page:      name,
		Error:     q.Get("error"),
		Providers: providers(h.Gate.Origin(r), h.GoogleEnabled),
	}
	if raw := q.Get(httpx.CallbackParam); raw != "" {
		resp.CallbackURL = h.Gate.SafeCallback(r, raw)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleHome returns the signed-in user's session view.
//
//	@Summary		Home
//	@Description	Protected. Unauthenticated requests are redirected to /login?callbackURL=<original URL>.
//	@Tags			Pages
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	profilesdk.Session
//	@Success		307	"Redirect to the sign-in page"
//	@Router			/ [get].
func (h *PagesHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	session, ok := httpx.SessionFromContext(r.Context())
	if !ok {
		writeError(w, r, "Home", domain.ErrNoSession)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionView(session))
}
