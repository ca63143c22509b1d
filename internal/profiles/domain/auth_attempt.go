package domain

// AuthAttempt is one of LocalAttempt or ExternalAttempt.
type AuthAttempt interface {
	isAuthAttempt()
}

// LocalAttempt is an email and password sign-in.
type LocalAttempt struct {
	Email    string
	Password string
}

// ExternalAttempt is an identity an OAuth provider has already confirmed.
type ExternalAttempt struct {
	Provider string
	Email    string
	Name     string
	Image    string
}

func (LocalAttempt) isAuthAttempt()    {}
func (ExternalAttempt) isAuthAttempt() {}
