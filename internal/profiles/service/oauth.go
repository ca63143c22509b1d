package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrOAuthExchange   = errors.New("oauth: code exchange failed")
	ErrOAuthUserInfo   = errors.New("oauth: fetching user info failed")
	ErrUnverifiedEmail = errors.New("oauth: google account email is not verified")
)

// GoogleConfig is read from GOOGLE_* environment variables. Google sign-in
// is enabled only when all three are set.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string   `env:"GOOGLE_REDIRECT_URL"`
	Scopes       []string `env:"GOOGLE_SCOPES" envSeparator:"," envDefault:"openid,email,profile"`
	VerifiedOnly bool     `env:"GOOGLE_VERIFIED_ONLY" envDefault:"true"`
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

type GoogleOption func(*GoogleService)

// WithGoogleEndpoint points the token exchange somewhere other than Google.
func WithGoogleEndpoint(ep oauth2.Endpoint) GoogleOption {
	return func(s *GoogleService) { s.oauth.Endpoint = ep }
}

// WithGoogleUserInfoURL overrides the userinfo endpoint.
func WithGoogleUserInfoURL(url string) GoogleOption {
	return func(s *GoogleService) { s.userInfoURL = url }
}

// GoogleService runs the authorization code flow against Google and hands
// the confirmed identity to the IdentityService.
type GoogleService struct {
	Identities *IdentityService

	oauth        *oauth2.Config
	userInfoURL  string
	verifiedOnly bool
	timeout      time.Duration
}

func NewGoogleService(cfg GoogleConfig, identities *IdentityService, opts ...GoogleOption) *GoogleService {
	s := &GoogleService{
		Identities: identities,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL:  googleUserInfoURL,
		verifiedOnly: cfg.VerifiedOnly,
		timeout:      10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthURL is the consent page URL carrying state.
func (s *GoogleService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Authenticate exchanges code and resolves the Google account to a user.
// State must already have been checked by the caller.
func (s *GoogleService) Authenticate(ctx context.Context, code string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrOAuthExchange, err)
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrOAuthUserInfo, err)
	}
	if s.verifiedOnly && !info.VerifiedEmail {
		return domain.User{}, ErrUnverifiedEmail
	}

	return s.Identities.Resolve(ctx, domain.ExternalAttempt{
		Provider: ProviderGoogle,
		Email:    info.Email,
		Name:     info.Name,
		Image:    info.Picture,
	})
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}

	resp, err := s.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	return info, nil
}
