package http

import (
	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/pkg/jwtx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
)

func userView(u domain.User) profilesdk.User {
	return profilesdk.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func sessionUserView(u jwtx.SessionUser) profilesdk.SessionUser {
	return profilesdk.SessionUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
	}
}

func sessionView(s jwtx.Session) profilesdk.Session {
	user := sessionUserView(s.User)
	return profilesdk.Session{User: &user, Expires: s.Expires}
}
