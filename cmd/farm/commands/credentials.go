package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/99designs/keyring"
	"github.com/farmhand-io/farmos-client/internal/auth"
)

const (
	keyringServiceName = "farmos-client"

	envKeyringPassword = "FARM_KEYRING_PASSWORD"
)

// ErrNoStoredCredentials is returned when no credentials exist for a host.
var ErrNoStoredCredentials = errors.New("no stored credentials")

// openKeyring is a package-level function for opening keyrings.
// It can be replaced in tests to use a mock keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn

	return func() { openKeyring = original }
}

// StoredCredentials holds the tokens persisted for one farmOS host.
type StoredCredentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// KeyringStore persists OAuth2 tokens in the system keyring, falling back
// to an encrypted file under ~/.farm/keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

var _ auth.CredentialPersister = (*KeyringStore)(nil)

// NewKeyringStore opens the credential store.
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}

	return &KeyringStore{ring: ring}, nil
}

func keyringConfig() keyring.Config {
	return keyring.Config{
		ServiceName:      keyringServiceName,
		FileDir:          keyringFileDir(),
		FilePasswordFunc: keyringFilePassword,
	}
}

func keyringFileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), keyringServiceName)
	}

	return filepath.Join(home, ".farm", "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password := os.Getenv(envKeyringPassword); password != "" {
		return password, nil
	}

	return keyring.TerminalPrompt(prompt)
}

func credentialKey(hostname string) string {
	return "credentials:" + hostname
}

// Load returns the credentials stored for a host, or
// ErrNoStoredCredentials when none exist.
func (s *KeyringStore) Load(hostname string) (*StoredCredentials, error) {
	item, err := s.ring.Get(credentialKey(hostname))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrNoStoredCredentials
		}

		return nil, fmt.Errorf("reading keyring: %w", err)
	}

	var creds StoredCredentials
	if err := json.Unmarshal(item.Data, &creds); err != nil {
		return nil, fmt.Errorf("parsing stored credentials: %w", err)
	}

	return &creds, nil
}

// UpdateTokens implements auth.CredentialPersister. Clearing both tokens
// removes the keyring entry entirely.
func (s *KeyringStore) UpdateTokens(hostname, accessToken string, expiresAt time.Time, refreshToken string) error {
	if accessToken == "" && refreshToken == "" {
		return s.Clear(hostname)
	}

	data, err := json.Marshal(StoredCredentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	err = s.ring.Set(keyring.Item{
		Key:   credentialKey(hostname),
		Data:  data,
		Label: "farmOS tokens for " + hostname,
	})
	if err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}

	return nil
}

// Clear removes the credentials stored for a host.
func (s *KeyringStore) Clear(hostname string) error {
	err := s.ring.Remove(credentialKey(hostname))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing keyring entry: %w", err)
	}

	return nil
}
