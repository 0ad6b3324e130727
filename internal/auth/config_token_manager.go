package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors.
var (
	ErrNoCredentialPersister = errors.New("no credential persister configured")
)

// CredentialPersister persists refreshed tokens so a CLI session survives
// process restarts.
type CredentialPersister interface {
	UpdateTokens(hostname, accessToken string, expiresAt time.Time, refreshToken string) error
}

// PersistingTokenManager wraps OAuth2TokenManager and writes refreshed
// tokens through a CredentialPersister.
type PersistingTokenManager struct {
	oauthManager *OAuth2TokenManager
	persister    CredentialPersister
	hostname     string

	mu            sync.Mutex
	lastPersisted string
}

// NewPersistingTokenManager creates a persisting token manager. An
// initial token (possibly empty) seeds the inner manager via the config.
func NewPersistingTokenManager(config *OAuth2Config, persister CredentialPersister, hostname string) *PersistingTokenManager {
	return &PersistingTokenManager{
		oauthManager:  NewOAuth2TokenManager(config),
		persister:     persister,
		hostname:      hostname,
		lastPersisted: config.AccessToken,
	}
}

// GetToken returns a valid access token, persisting it when a refresh
// produced a new one.
func (m *PersistingTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.oauthManager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.persistIfChanged()

	return token, nil
}

// RefreshToken forces a refresh and persists the result.
func (m *PersistingTokenManager) RefreshToken(ctx context.Context) error {
	err := m.oauthManager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.persistIfChanged()

	return nil
}

// SetToken installs an externally obtained token.
func (m *PersistingTokenManager) SetToken(token string, expiresAt time.Time) {
	m.oauthManager.SetToken(token, expiresAt)
}

// Revoke revokes the stored tokens and clears them from the persister.
func (m *PersistingTokenManager) Revoke(ctx context.Context) error {
	err := m.oauthManager.Revoke(ctx)
	if err != nil {
		return err
	}

	if m.persister != nil {
		if err := m.persister.UpdateTokens(m.hostname, "", time.Time{}, ""); err != nil {
			return fmt.Errorf("clearing persisted tokens: %w", err)
		}
	}

	return nil
}

// persistIfChanged writes the current token through the persister when it
// differs from the last persisted one. Persistence failures are reported
// on stderr but never fail the request.
func (m *PersistingTokenManager) persistIfChanged() {
	if m.persister == nil {
		return
	}

	current := m.oauthManager.Current()
	if current == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if current.AccessToken == m.lastPersisted {
		return
	}

	err := m.persister.UpdateTokens(m.hostname, current.AccessToken, current.ExpiresAt, current.RefreshToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", err)

		return
	}

	m.lastPersisted = current.AccessToken
}
