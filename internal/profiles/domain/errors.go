package domain

import "errors"

// Kind groups domain errors by how the boundary reports them.
type Kind int

const (
	// KindValidation is bad caller input.
	KindValidation Kind = iota + 1
	// KindAuth is a failed authentication or a missing session.
	KindAuth
)

// Error is a domain failure whose Message is safe to show to the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation errors.
var (
	ErrMissingCredentials = &Error{Kind: KindValidation, Message: "Email or Password is not found"}
	ErrMissingFields      = &Error{Kind: KindValidation, Message: "Name, Email and Password are required!"}
	ErrPasswordTooShort   = &Error{Kind: KindValidation, Message: "Password must be at least 6 characters!"}
	ErrPasswordTooLong    = &Error{Kind: KindValidation, Message: "Password must be at most 72 bytes!"}
	ErrEmailTaken         = &Error{Kind: KindValidation, Message: "User already exist!"}
	ErrMissingName        = &Error{Kind: KindValidation, Message: "Name is required!"}
	ErrUnsupportedImage   = &Error{Kind: KindValidation, Message: "Image must be a PNG, JPEG, GIF or WebP file!"}
	ErrImageTooLarge      = &Error{Kind: KindValidation, Message: "Image is too large!"}
)

// Auth errors.
var (
	ErrNotFound           = &Error{Kind: KindAuth, Message: "User not found"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "Incorrect Password"}
	ErrNoSession          = &Error{Kind: KindAuth, Message: "User does not have session"}
	ErrInvalidToken       = &Error{Kind: KindAuth, Message: "Invalid session"}
)

// AsError unwraps err into a domain error, if it is one.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
