package commands

import (
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *KeyringStore {
	t.Helper()

	ring := keyring.NewArrayKeyring(nil)
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)

	store, err := NewKeyringStore()
	require.NoError(t, err)

	return store
}

func TestKeyringStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	err := store.UpdateTokens("https://farm.example.com", "access-token", expiresAt, "refresh-token")
	require.NoError(t, err)

	creds, err := store.Load("https://farm.example.com")
	require.NoError(t, err)
	assert.Equal(t, "access-token", creds.AccessToken)
	assert.Equal(t, "refresh-token", creds.RefreshToken)
	assert.True(t, expiresAt.Equal(creds.ExpiresAt))
}

func TestKeyringStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("https://farm.example.com")
	assert.ErrorIs(t, err, ErrNoStoredCredentials)
}

func TestKeyringStore_HostsAreIsolated(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateTokens("https://one.example.com", "token-one", time.Time{}, "")
	require.NoError(t, err)
	err = store.UpdateTokens("https://two.example.com", "token-two", time.Time{}, "")
	require.NoError(t, err)

	creds, err := store.Load("https://one.example.com")
	require.NoError(t, err)
	assert.Equal(t, "token-one", creds.AccessToken)

	creds, err = store.Load("https://two.example.com")
	require.NoError(t, err)
	assert.Equal(t, "token-two", creds.AccessToken)
}

func TestKeyringStore_EmptyTokensRemoveEntry(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateTokens("https://farm.example.com", "access-token", time.Time{}, "refresh-token")
	require.NoError(t, err)

	// A revoke clears both tokens, which deletes the entry
	err = store.UpdateTokens("https://farm.example.com", "", time.Time{}, "")
	require.NoError(t, err)

	_, err = store.Load("https://farm.example.com")
	assert.ErrorIs(t, err, ErrNoStoredCredentials)
}

func TestKeyringStore_ClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Clear("https://farm.example.com"))
	require.NoError(t, store.Clear("https://farm.example.com"))
}
