package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Thanhbi2612/Dreamlens/internal/config"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// OAuthService Google OAuth2 authorization code flow
type OAuthService struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewOAuthService creates the Google OAuth service
func NewOAuthService(cfg *config.GoogleConfig) *OAuthService {
	return newOAuthService(cfg, google.Endpoint, googleUserInfoURL)
}

func newOAuthService(cfg *config.GoogleConfig, endpoint oauth2.Endpoint, userInfoURL string) *OAuthService {
	return &OAuthService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}
}

// Enabled reports whether client credentials are configured
func (s *OAuthService) Enabled() bool {
	return s.config.ClientID != "" && s.config.ClientSecret != ""
}

// AuthCodeURL returns the consent page URL carrying state
func (s *OAuthService) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the user's Google profile
func (s *OAuthService) Exchange(ctx context.Context, code string) (*GoogleUserInfo, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := s.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read userinfo: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo error: status=%d, body=%s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode userinfo: invalid json")
	}

	fields := gjson.GetManyBytes(body, "sub", "email", "name", "picture")
	return &GoogleUserInfo{
		Sub:     fields[0].String(),
		Email:   fields[1].String(),
		Name:    fields[2].String(),
		Picture: fields[3].String(),
	}, nil
}
