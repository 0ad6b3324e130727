package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

func TestCSRFProvider_Token(t *testing.T) {
	t.Parallel()

	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		atomic.AddInt32(&requests, 1)

		assert.Equal(t, "/restws/session/token", request.URL.Path)
		assert.Equal(t, "Bearer access-token", request.Header.Get("Authorization"))

		// Drupal returns the bare token string, no JSON.
		_, _ = writer.Write([]byte("csrf-token-value\n"))
	}))
	defer server.Close()

	provider := NewCSRFProvider(server.URL, nil)

	token, err := provider.Token(context.Background(), "access-token")
	require.NoError(t, err)
	assert.Equal(t, "csrf-token-value", token)

	// The token is cached for the life of the session.
	token, err = provider.Token(context.Background(), "access-token")
	require.NoError(t, err)
	assert.Equal(t, "csrf-token-value", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestCSRFProvider_Reset(t *testing.T) {
	t.Parallel()

	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		atomic.AddInt32(&requests, 1)
		_, _ = writer.Write([]byte("csrf-token-value"))
	}))
	defer server.Close()

	provider := NewCSRFProvider(server.URL, nil)

	_, err := provider.Token(context.Background(), "")
	require.NoError(t, err)

	provider.Reset()

	_, err = provider.Token(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestCSRFProvider_Failure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
		_, _ = writer.Write([]byte("Access denied"))
	}))
	defer server.Close()

	provider := NewCSRFProvider(server.URL, nil)

	_, err := provider.Token(context.Background(), "")
	require.Error(t, err)
	assert.True(t, farmos.IsForbidden(err))
}
