package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

type CredentialsHandler struct {
	IdentityService *service.IdentityService
	SessionService  *service.SessionService
	Gate            *httpx.Gate
	Cookies         httpx.CookieOptions
}

// ServeHTTP signs a user in with email and password.
//
//	@Summary		Sign in with email and password
//	@Description	Verifies the credentials, sets the session_token cookie and returns the session user together
//	@Description	with the URL to continue to. callbackURL is only honoured when it points back at this service.
//	@Tags			Auth
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		profilesdk.SignInRequest	true	"Credentials"
//	@Success		200		{object}	profilesdk.SignInResponse	"Signed in"
//	@Failure		400		{object}	httpx.Message				"Email or Password is not found, User not found or Incorrect Password"
//	@Failure		429		{object}	httpx.Message				"Too many requests"
//	@Failure		500		{object}	httpx.Message				"Sign in error: <detail>"
//	@Router			/api/auth/callback/credentials [post].
func (h *CredentialsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, r, "Sign in", err)
		return
	}

	user, err := h.IdentityService.Resolve(ctx, domain.LocalAttempt{
		Email:    fields["email"],
		Password: fields["password"],
	})
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			log.Info("credential sign-in rejected", slog.String("reason", err.Error()))
		}
		writeError(w, r, "Sign in", err)
		return
	}

	token, session, err := h.SessionService.Mint(user)
	if err != nil {
		writeError(w, r, "Sign in", err)
		return
	}

	httpx.SetSessionCookie(w, h.Cookies, token, session.Expires)
	log.Info("user signed in",
		slog.String("user_id", user.ID),
		slog.String("provider", service.ProviderCredentials),
	)

	httpx.WriteJSON(w, http.StatusOK, profilesdk.SignInResponse{
		User: sessionUserView(session.User),
		URL:  h.Gate.SafeCallback(r, fields[httpx.CallbackParam]),
	})
}
