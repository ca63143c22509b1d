package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/media"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

// AvatarStore persists an avatar and returns its public URL.
type AvatarStore interface {
	PutAvatar(ctx context.Context, userID string, a media.Avatar) (string, error)
}

type ProfileService struct {
	Conn store.Conn
	// Avatars may be nil, in which case uploaded images are ignored.
	Avatars AvatarStore
}

// EditInput is a profile edit. Avatar is optional.
type EditInput struct {
	Name   string
	Avatar *media.Avatar
}

// Get returns the stored profile of userID without its password hash.
func (s *ProfileService) Get(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrNoSession
	}

	st, err := s.Conn.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}

	u, err := st.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u.Public(), nil
}

// Edit updates the name and, when an avatar is given and stored
// successfully, the image. A failed upload keeps the current image.
func (s *ProfileService) Edit(ctx context.Context, userID string, in EditInput) (domain.User, error) {
	if userID == "" {
		return domain.User{}, domain.ErrNoSession
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.User{}, domain.ErrMissingName
	}

	st, err := s.Conn.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	users := st.Users()

	if _, err := users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	update := store.ProfileUpdate{Name: name}
	if in.Avatar != nil {
		image, err := s.storeAvatar(ctx, userID, *in.Avatar)
		if err != nil {
			return domain.User{}, err
		}
		if image != "" {
			update.Image = &image
		}
	}

	u, err := users.UpdateProfile(ctx, userID, update)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u.Public(), nil
}

// storeAvatar returns "" when the image should stay as it is. Only bad input
// is reported as an error.
func (s *ProfileService) storeAvatar(ctx context.Context, userID string, a media.Avatar) (string, error) {
	log := slogx.FromContext(ctx)

	if s.Avatars == nil {
		log.Warn("avatar upload ignored: media storage not configured")
		return "", nil
	}

	url, err := s.Avatars.PutAvatar(ctx, userID, a)
	switch {
	case errors.Is(err, media.ErrUnsupportedType):
		return "", domain.ErrUnsupportedImage
	case errors.Is(err, media.ErrTooLarge):
		return "", domain.ErrImageTooLarge
	case err != nil:
		log.Error("avatar upload failed, keeping current image", slog.Any("err", err))
		return "", nil
	}
	return url, nil
}
