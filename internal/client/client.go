// Package client implements the farmos.Client interface against a live
// farmOS host.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/farmhand-io/farmos-client/internal/auth"
	"github.com/farmhand-io/farmos-client/internal/constants"
	"github.com/farmhand-io/farmos-client/internal/http"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// Static errors.
var (
	ErrAreaNotFound = errors.New("area not found")
)

// Client implements the farmos.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	csrfProvider *auth.CSRFProvider
	baseURL      string
	logger       farmos.Logger
	cache        farmos.Cache
	cacheTTL     time.Duration

	assets       farmos.AssetsClient
	logs         farmos.LogsClient
	terms        farmos.TermsClient
	vocabularies farmos.VocabulariesClient
	areas        farmos.AreasClient
}

// createTokenManager creates the appropriate token manager based on the
// configured credentials.
func createTokenManager(config *farmos.Config) auth.TokenManager {
	clientID := config.ClientID
	if clientID == "" {
		clientID = constants.DefaultOAuthClientID
	}

	scope := config.Scope
	if scope == "" {
		scope = constants.DefaultOAuthScope
	}

	oauthConfig := &auth.OAuth2Config{
		TokenURL:     config.Hostname + constants.OAuthTokenPath,
		RevokeURL:    config.Hostname + constants.OAuthRevokePath,
		ClientID:     clientID,
		ClientSecret: config.ClientSecret, // defaults to "", never absent
		Username:     config.Username,
		Password:     config.Password,
		RefreshToken: config.RefreshToken,
		Scope:        scope,
	}

	switch {
	case config.AccessToken != "" && config.RefreshToken != "":
		oauthConfig.AccessToken = config.AccessToken

		return auth.NewOAuth2TokenManager(oauthConfig)

	case config.AccessToken != "":
		return &staticTokenManager{token: config.AccessToken}

	case config.Username != "" && config.Password != "":
		return auth.NewOAuth2TokenManager(oauthConfig)

	case config.RefreshToken != "":
		return auth.NewOAuth2TokenManager(oauthConfig)

	case config.ClientID != "" && config.ClientSecret != "":
		return auth.NewOAuth2TokenManager(oauthConfig)

	default:
		return nil // No authentication
	}
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *farmos.Config, csrfProvider *auth.CSRFProvider) []http.Option {
	httpOpts := []http.Option{http.WithCSRFProvider(csrfProvider)}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new farmOS API client.
func New(ctx context.Context, config *farmos.Config) (*Client, error) {
	if config.Hostname == "" {
		return nil, farmos.ErrHostnameRequired
	}

	tokenManager := createTokenManager(config)

	return newWithManager(config, tokenManager)
}

// NewWithTokenManager creates a client with a custom token manager.
func NewWithTokenManager(config *farmos.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.Hostname == "" {
		return nil, farmos.ErrHostnameRequired
	}

	return newWithManager(config, tokenManager)
}

func newWithManager(config *farmos.Config, tokenManager auth.TokenManager) (*Client, error) {
	cache, err := farmos.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	cacheTTL := constants.DefaultVocabularyCacheTTL
	if config.Cache != nil && config.Cache.Options != nil && config.Cache.Options.DefaultTTL > 0 {
		cacheTTL = config.Cache.Options.DefaultTTL
	}

	csrfProvider := auth.NewCSRFProvider(config.Hostname, nil)
	httpOpts := createHTTPClientOptions(config, csrfProvider)
	httpClient := http.NewClient(config.Hostname, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		csrfProvider: csrfProvider,
		baseURL:      httpClient.BaseURL(),
		logger:       config.Logger,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}

	client.initializeResourceClients()

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.assets = NewAssetsClient(c.httpClient)
	c.logs = NewLogsClient(c.httpClient)
	c.terms = NewTermsClient(c.httpClient)
	c.vocabularies = NewVocabulariesClient(c.httpClient)
	c.areas = NewAreasClient(c.httpClient, c.vocabularies, c.cache, c.cacheTTL)
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", farmos.ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// GetInfo implements farmos.Client.GetInfo.
func (c *Client) GetInfo(ctx context.Context) (*farmos.FarmInfo, error) {
	resp, err := c.httpClient.Get(ctx, "/farm.json", nil)
	if err != nil {
		return nil, fmt.Errorf("getting farm info: %w", err)
	}

	var info farmos.FarmInfo

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing farm info response: %w", err)
	}

	return &info, nil
}

// revoker is implemented by token managers that can revoke their tokens.
type revoker interface {
	Revoke(ctx context.Context) error
}

// Logout implements farmos.Client.Logout: the tokens are revoked at the
// authorization server (when the manager supports it) and all instance
// state is cleared.
func (c *Client) Logout(ctx context.Context) error {
	if r, ok := c.tokenManager.(revoker); ok {
		if err := r.Revoke(ctx); err != nil {
			return fmt.Errorf("revoking tokens: %w", err)
		}
	}

	c.csrfProvider.Reset()

	if err := c.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	return nil
}

// Resource client accessors

// Assets implements farmos.Client.Assets.
func (c *Client) Assets() farmos.AssetsClient {
	return c.assets
}

// Logs implements farmos.Client.Logs.
func (c *Client) Logs() farmos.LogsClient {
	return c.logs
}

// Terms implements farmos.Client.Terms.
func (c *Client) Terms() farmos.TermsClient {
	return c.terms
}

// Vocabularies implements farmos.Client.Vocabularies.
func (c *Client) Vocabularies() farmos.VocabulariesClient {
	return c.vocabularies
}

// Areas implements farmos.Client.Areas.
func (c *Client) Areas() farmos.AreasClient {
	return c.areas
}

// listPage fetches one page of a list endpoint and decodes the farmOS
// list envelope.
func listPage[T any](ctx context.Context, httpClient *http.Client, path string, params *farmos.QueryParams) (*farmos.PageResponse[T], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var page farmos.PageResponse[T]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	return &page, nil
}

// recordURI builds the canonical URI of a record, {host}/{resource}/{id}.
func recordURI(baseURL, resource string, id farmos.ID) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + resource + "/" + id.String()
}

// staticTokenManager provides a fixed caller-supplied token.
type staticTokenManager struct {
	token string
}

func (m *staticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *staticTokenManager) RefreshToken(ctx context.Context) error {
	return farmos.ErrStaticTokenCannotRefresh
}

func (m *staticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}
