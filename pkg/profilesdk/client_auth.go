package profilesdk

import (
	"context"
	"net/http"
)

// Register creates a local account. It does not sign the caller in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}

	return &user, nil
}

// SignIn authenticates with email and password. On success the session
// cookie is stored in the client's jar.
func (c *Client) SignIn(ctx context.Context, email, password, callbackURL string) (*SignInResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/callback/credentials", SignInRequest{
		Email:       email,
		Password:    password,
		CallbackURL: callbackURL,
	})
	if err != nil {
		return nil, err
	}

	var out SignInResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}

// Session returns the current session view. Anonymous callers get a
// Session whose User is nil.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/session", nil, nil)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := decodeJSON(resp, &session, http.StatusOK); err != nil {
		return nil, err
	}

	return &session, nil
}

// SignOut clears the session cookie.
func (c *Client) SignOut(ctx context.Context) (*SignOutResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
	if err != nil {
		return nil, err
	}

	var out SignOutResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}

// Providers lists the enabled sign-in methods.
func (c *Client) Providers(ctx context.Context) (ProvidersResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/providers", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ProvidersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out, nil
}
