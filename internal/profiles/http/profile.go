package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/media"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
)

// Room for the name field and multipart framing on top of the file itself.
const formOverhead = 1 << 20

type ProfileHandler struct {
	ProfileService *service.ProfileService
	MaxUploadBytes int64
}

// HandleGet returns the stored profile of the signed-in user.
//
//	@Summary		Get the current user
//	@Description	Returns the stored user record of the session owner, without the password hash.
//	@Tags			Profile
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	profilesdk.User	"Stored user"
//	@Success		307	"Redirect to the sign-in page"
//	@Failure		400	{object}	httpx.Message	"User does not have session, or User not found"
//	@Failure		500	{object}	httpx.Message	"Get user error: <detail>"
//	@Router			/api/user [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := httpx.SessionFromContext(ctx)
	if !ok {
		writeError(w, r, "Get user", domain.ErrNoSession)
		return
	}

	user, err := h.ProfileService.Get(ctx, session.User.ID)
	if err != nil {
		writeError(w, r, "Get user", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userView(user))
}

// HandleEdit updates the name and optionally the avatar.
//
//	@Summary		Edit the current user
//	@Description	Multipart form with a required name and an optional image file. If storing the image fails
//	@Description	the current image is kept and the name is still updated.
//	@Tags			Profile
//	@Security		SessionCookie
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name	formData	string	true	"Display name"
//	@Param			file	formData	file	false	"PNG, JPEG, GIF or WebP avatar"
//	@Success		200		{object}	profilesdk.User	"Updated user"
//	@Failure		400		{object}	httpx.Message	"Missing session, unknown user, missing name or a bad image"
//	@Failure		429		{object}	httpx.Message	"Too many requests"
//	@Failure		500		{object}	httpx.Message	"Edit error: <detail>"
//	@Router			/api/edit [post].
func (h *ProfileHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := httpx.SessionFromContext(ctx)
	if !ok {
		writeError(w, r, "Edit", domain.ErrNoSession)
		return
	}

	limit := h.MaxUploadBytes + formOverhead
	if r.ContentLength > limit {
		writeError(w, r, "Edit", domain.ErrImageTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := r.ParseMultipartForm(h.MaxUploadBytes)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		// A name-only edit may arrive urlencoded.
		if err := r.ParseForm(); err != nil {
			writeError(w, r, "Edit", fmt.Errorf("parse form: %w", err))
			return
		}
	case err != nil:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, "Edit", domain.ErrImageTooLarge)
			return
		}
		writeError(w, r, "Edit", fmt.Errorf("parse form: %w", err))
		return
	default:
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	in := service.EditInput{Name: r.FormValue("name")}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			in.Avatar = &media.Avatar{Filename: header.Filename, Body: file}
		case !errors.Is(err, http.ErrMissingFile):
			writeError(w, r, "Edit", fmt.Errorf("read file: %w", err))
			return
		}
	}

	user, err := h.ProfileService.Edit(ctx, session.User.ID, in)
	if err != nil {
		writeError(w, r, "Edit", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userView(user))
}
