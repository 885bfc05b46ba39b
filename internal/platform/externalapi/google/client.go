package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"customer_backend/internal/feature/auth/usecase"
	"customer_backend/internal/platform/externalapi/google/dto"
)

// Client runs the authorization code flow against Google.
type Client struct {
	oauth       *oauth2.Config
	userInfoURL string
	http        *http.Client
	log         *zap.Logger
}

// NewClient creates a Client. httpClient carries the timeout for token and userinfo calls.
func NewClient(cfg Config, httpClient *http.Client, log *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		http:        httpClient,
		log:         log.With(zap.String("component", "google_oauth")),
	}
}

// AuthCodeURL returns the consent page URL carrying state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the authorization code for a token and fetches the user's profile.
func (c *Client) Exchange(ctx context.Context, code string) (usecase.GoogleProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return usecase.GoogleProfile{}, fmt.Errorf("google token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return usecase.GoogleProfile{}, err
	}
	res, err := c.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return usecase.GoogleProfile{}, fmt.Errorf("google userinfo: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			c.log.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if res.StatusCode >= 400 {
		return usecase.GoogleProfile{}, fmt.Errorf("google userinfo http %d", res.StatusCode)
	}

	var body dto.UserInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return usecase.GoogleProfile{}, fmt.Errorf("decode google userinfo: %w", err)
	}
	return usecase.GoogleProfile{
		ID:            body.Sub,
		Email:         body.Email,
		EmailVerified: body.EmailVerified,
		Name:          body.Name,
	}, nil
}
