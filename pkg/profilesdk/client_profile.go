package profilesdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Avatar is an image file attached to a profile edit.
type Avatar struct {
	Filename string
	Body     io.Reader
}

// GetProfile returns the signed-in user's stored profile.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/user", nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusTemporaryRedirect {
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Header.Get("Location")}
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}

// EditProfile updates the display name and, when avatar is non-nil, the
// profile image.
func (c *Client) EditProfile(ctx context.Context, name string, avatar *Avatar) (*User, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}
	if avatar != nil {
		part, err := mw.CreateFormFile("file", avatar.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}
		if _, err := io.Copy(part, avatar.Body); err != nil {
			return nil, fmt.Errorf("failed to encode form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/edit", &buf, map[string]string{
		"Content-Type": mw.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}
