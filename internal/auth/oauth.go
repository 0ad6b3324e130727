package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/farmhand-io/farmos-client/internal/constants"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// TokenManager defines the interface for managing access tokens.
type TokenManager interface {
	// GetToken returns a valid access token, refreshing transparently if
	// the current one has expired.
	GetToken(ctx context.Context) (string, error)

	// RefreshToken forces a token refresh.
	RefreshToken(ctx context.Context) error

	// SetToken installs a token obtained elsewhere.
	SetToken(token string, expiresAt time.Time)
}

// OAuth2Config configures the OAuth2 token manager.
type OAuth2Config struct {
	// TokenURL is the full token endpoint, {host}/oauth2/token.
	TokenURL string
	// RevokeURL is the full revocation endpoint, {host}/oauth2/revoke.
	RevokeURL string

	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
	Scope        string

	// AccessToken seeds the store with an already-issued token.
	AccessToken string

	// AccessTokenExpiresAt is the seeded token's expiry. Zero means the
	// expiry is unknown and the token is sent until the server rejects it.
	AccessTokenExpiresAt time.Time

	// HTTPClient is used for token endpoint calls. Defaults to a client
	// with a short timeout.
	HTTPClient *http.Client
}

// OAuth2TokenManager manages farmOS OAuth2 tokens with the password and
// refresh-token grants. At most one token exists at a time and only one
// refresh is in flight at a time.
type OAuth2TokenManager struct {
	config     *OAuth2Config
	store      *TokenStore
	httpClient *http.Client

	// refreshMu serializes token refresh so concurrent callers do not
	// race redundant grants against the server.
	refreshMu sync.Mutex
}

// NewOAuth2TokenManager creates a new OAuth2 token manager.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	manager := &OAuth2TokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			TokenType:    "Bearer",
			RefreshToken: config.RefreshToken,
			ExpiresAt:    config.AccessTokenExpiresAt,
		})
	}

	return manager
}

// GetToken returns the current bearer token, refreshing it transparently
// if expired.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	// Another caller may have refreshed while we waited on the lock.
	token = m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	refreshed, err := m.obtainToken(ctx, token)
	if err != nil {
		return "", err
	}

	m.store.Set(refreshed)

	return refreshed.AccessToken, nil
}

// RefreshToken forces a refresh regardless of the current token's expiry.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	refreshed, err := m.obtainToken(ctx, m.store.Get())
	if err != nil {
		return err
	}

	m.store.Set(refreshed)

	return nil
}

// SetToken installs an externally obtained access token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

// Current returns the stored token value, or nil.
func (m *OAuth2TokenManager) Current() *Token {
	return m.store.Get()
}

// Revoke revokes the current tokens at the authorization server and
// clears the store. Used by logout.
func (m *OAuth2TokenManager) Revoke(ctx context.Context) error {
	token := m.store.Get()
	if token == nil {
		return nil
	}

	if m.config.RevokeURL != "" {
		hints := map[string]string{
			"access_token": token.AccessToken,
		}
		if token.RefreshToken != "" {
			hints["refresh_token"] = token.RefreshToken
		}

		for hint, value := range hints {
			if err := m.revokeOne(ctx, value, hint); err != nil {
				return err
			}
		}
	}

	m.store.Clear()

	return nil
}

func (m *OAuth2TokenManager) revokeOne(ctx context.Context, token, hint string) error {
	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", hint)
	form.Set("client_id", m.config.ClientID)
	form.Set("client_secret", m.config.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating revoke request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoking %s: %w", hint, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("revoking %s: %w", hint, farmos.ParseAPIError(resp.StatusCode, body))
	}

	return nil
}

// obtainToken performs one grant against the token endpoint. Callers hold
// refreshMu.
func (m *OAuth2TokenManager) obtainToken(ctx context.Context, current *Token) (*Token, error) {
	refreshToken := m.config.RefreshToken
	if current != nil && current.RefreshToken != "" {
		refreshToken = current.RefreshToken
	}

	switch {
	case refreshToken != "":
		return m.requestToken(ctx, url.Values{
			"grant_type":    []string{"refresh_token"},
			"refresh_token": []string{refreshToken},
		})

	case m.config.Username != "" && m.config.Password != "":
		return m.requestToken(ctx, url.Values{
			"grant_type": []string{"password"},
			"username":   []string{m.config.Username},
			"password":   []string{m.config.Password},
		})

	case m.config.ClientID != "" && m.config.ClientSecret != "":
		return m.requestToken(ctx, url.Values{
			"grant_type": []string{"client_credentials"},
		})

	default:
		return nil, farmos.ErrNoValidCredentials
	}
}

// requestToken posts a grant to the token endpoint and parses the result.
func (m *OAuth2TokenManager) requestToken(ctx context.Context, form url.Values) (*Token, error) {
	form.Set("client_id", m.config.ClientID)
	form.Set("client_secret", m.config.ClientSecret)

	if m.config.Scope != "" && form.Get("grant_type") != "refresh_token" {
		form.Set("scope", m.config.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var oauthErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}

		if json.Unmarshal(body, &oauthErr) == nil && oauthErr.Error != "" {
			return nil, fmt.Errorf("%w: %s: %s", farmos.ErrTokenExchangeFailed, oauthErr.Error, oauthErr.ErrorDescription)
		}

		return nil, fmt.Errorf("%w: status %d: %s", farmos.ErrTokenExchangeFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}
