// internal/identity/msgraph.go
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	xerrors "jobmatch-service/internal/pkg/errors"
)

const (
	defaultAuthURLFormat  = "https://login.microsoftonline.com/%s/oauth2/v2.0/authorize"
	defaultTokenURLFormat = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"
	defaultProfileURL     = "https://graph.microsoft.com/v1.0/me"
)

// MicrosoftConfig configures the Microsoft Entra ID provider.
type MicrosoftConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint overrides, used by tests.
	AuthURL    string
	TokenURL   string
	ProfileURL string
}

// MicrosoftProvider authenticates users against Microsoft Entra ID and reads
// their profile from Microsoft Graph.
type MicrosoftProvider struct {
	config MicrosoftConfig
	client *http.Client
}

func NewMicrosoftProvider(config MicrosoftConfig) *MicrosoftProvider {
	if config.AuthURL == "" {
		config.AuthURL = fmt.Sprintf(defaultAuthURLFormat, config.TenantID)
	}
	if config.TokenURL == "" {
		config.TokenURL = fmt.Sprintf(defaultTokenURLFormat, config.TenantID)
	}
	if config.ProfileURL == "" {
		config.ProfileURL = defaultProfileURL
	}
	return &MicrosoftProvider{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginURL builds the authorization URL with the User.Read scope.
func (p *MicrosoftProvider) LoginURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"response_mode": {"query"},
		"scope":         {"openid email profile User.Read"},
		"state":         {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

type microsoftTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// graphProfile is the subset of the Graph /me payload we need. Personal
// accounts can leave mail empty; userPrincipalName is the fallback.
type graphProfile struct {
	ID                string `json:"id"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	DisplayName       string `json:"displayName"`
}

// ExchangeCode trades an authorization code for a Graph access token.
func (p *MicrosoftProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
		"grant_type":    {"authorization_code"},
		"scope":         {"User.Read"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", xerrors.ErrUpstreamAuth, resp.StatusCode)
	}

	var tokenResp microsoftTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", xerrors.ErrUpstreamAuth)
	}

	return tokenResp.AccessToken, nil
}

// FetchProfile calls Graph /me with the access token. A non-2xx response or
// a profile missing id/email/name fails the exchange.
func (p *MicrosoftProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.ProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile endpoint returned %d", xerrors.ErrUpstreamAuth, resp.StatusCode)
	}

	var gp graphProfile
	if err := json.NewDecoder(resp.Body).Decode(&gp); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	email := gp.Mail
	if email == "" {
		email = gp.UserPrincipalName
	}

	if gp.ID == "" || email == "" || gp.DisplayName == "" {
		return nil, xerrors.ErrIncompleteProfile
	}

	return &Profile{
		ID:    gp.ID,
		Email: email,
		Name:  gp.DisplayName,
	}, nil
}
