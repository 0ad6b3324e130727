package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/farmhand-io/farmos-client/internal/constants"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// CSRFProvider fetches and caches the Drupal session (CSRF) token. One
// token exists per client instance; it is fetched lazily on the first
// authenticated request and never refreshed within a session.
type CSRFProvider struct {
	endpoint   string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewCSRFProvider creates a provider for {hostname}/restws/session/token.
func NewCSRFProvider(hostname string, httpClient *http.Client) *CSRFProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	return &CSRFProvider{
		endpoint:   strings.TrimSuffix(hostname, "/") + constants.SessionTokenPath,
		httpClient: httpClient,
	}
}

// Token returns the cached CSRF token, fetching it with the given access
// token on first use. Failures propagate unchanged.
func (p *CSRFProvider) Token(ctx context.Context, accessToken string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating session token request: %w", err)
	}

	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching session token: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading session token: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching session token: %w", farmos.ParseAPIError(resp.StatusCode, body))
	}

	// The response body is the literal token string.
	p.token = strings.TrimSpace(string(body))

	return p.token, nil
}

// Reset clears the cached token. Used by logout.
func (p *CSRFProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token = ""
}
