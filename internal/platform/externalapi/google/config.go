// Package google signs users in with Google OAuth 2.0 and reads their OpenID profile.
package google

import "customer_backend/internal/config"

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// Config holds the OAuth client registration. The endpoint URLs default to Google's.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// ConfigFrom maps the application configuration onto a client Config.
func ConfigFrom(cfg config.GoogleConfig) Config {
	return Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.CallbackURL,
	}
}

func (c Config) withDefaults() Config {
	if c.AuthURL == "" {
		c.AuthURL = defaultAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = defaultTokenURL
	}
	if c.UserInfoURL == "" {
		c.UserInfoURL = defaultUserInfoURL
	}
	return c
}
