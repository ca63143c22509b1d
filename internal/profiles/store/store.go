package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the credential store. Drivers (sqlite, mongo) implement it.
type Store interface {
	Users() Users

	// ApplyMigrations brings the schema (or indexes) up to date.
	ApplyMigrations(ctx context.Context) error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by normalised email. Used by both sign-in paths.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID). A taken
	// email yields ErrAlreadyExists and leaves the store unchanged.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile sets the name and, when non-nil, the image, bumps
	// updated_at and returns the stored result.
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (domain.User, error)
}

// ProfileUpdate is the editable part of a user.
type ProfileUpdate struct {
	Name  string
	Image *string
}
