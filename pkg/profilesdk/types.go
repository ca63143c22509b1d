package profilesdk

import "time"

// User is the public view of a stored user. The password hash never leaves
// the server.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the body of POST /api/auth/callback/credentials.
type SignInRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackURL,omitempty"`
}

// SignInResponse is returned after a successful sign-in. URL is where the
// caller should navigate next.
type SignInResponse struct {
	User SessionUser `json:"user"`
	URL  string      `json:"url"`
}

// SessionUser is the identity carried by a session.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Session is the body of GET /api/auth/session. An anonymous caller gets an
// empty object, which decodes to a Session with a nil User.
type Session struct {
	User    *SessionUser `json:"user,omitempty"`
	Expires time.Time    `json:"expires"`
}

// Authenticated reports whether the session carries a user.
func (s Session) Authenticated() bool { return s.User != nil }

// SignOutResponse is returned by POST /api/auth/signout.
type SignOutResponse struct {
	URL string `json:"url"`
}

// Provider describes one sign-in method.
type Provider struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	SignInURL   string `json:"signinUrl"`
	CallbackURL string `json:"callbackUrl"`
}

// ProvidersResponse lists the enabled sign-in methods keyed by provider id.
type ProvidersResponse map[string]Provider

// PageResponse is what the login and register entry pages render.
type PageResponse struct {
	Page        string     `json:"page"`
	CallbackURL string     `json:"callbackURL,omitempty"`
	Error       string     `json:"error,omitempty"`
	Providers   []Provider `json:"providers"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes the Checks field).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Media    string `json:"media"`
}
