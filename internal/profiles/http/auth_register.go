package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP creates a local account.
//
//	@Summary		Register a local account
//	@Description	Creates a user with email and password. The password must be at least 6 characters.
//	@Description	The created user is returned without its password hash; no session is started.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		profilesdk.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	profilesdk.User				"Created user"
//	@Failure		400		{object}	httpx.Message				"Missing fields, email taken or password too short"
//	@Failure		429		{object}	httpx.Message				"Too many requests"
//	@Failure		500		{object}	httpx.Message				"Register error: <detail>"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, r, "Register", err)
		return
	}

	user, err := h.RegistrationService.Register(ctx, service.RegisterInput{
		Name:     fields["name"],
		Email:    fields["email"],
		Password: fields["password"],
	})
	if err != nil {
		writeError(w, r, "Register", err)
		return
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", user.ID))
	httpx.WriteJSON(w, http.StatusCreated, userView(user))
}
