package farmclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmhand-io/farmos-client/pkg/farmclient"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := farmclient.New(context.Background(), nil)
	assert.ErrorIs(t, err, farmos.ErrConfigRequired)

	_, err = farmclient.New(context.Background(), &farmos.Config{})
	assert.ErrorIs(t, err, farmos.ErrHostnameRequired)
}

func TestNormalizeHostname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hostname string
		want     string
	}{
		{
			name:     "bare hostname gets https",
			hostname: "farm.example.com",
			want:     "https://farm.example.com",
		},
		{
			name:     "trailing slash trimmed",
			hostname: "https://farm.example.com/",
			want:     "https://farm.example.com",
		},
		{
			name:     "explicit http preserved",
			hostname: "http://localhost:8080",
			want:     "http://localhost:8080",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, farmclient.NormalizeHostname(testCase.hostname))
		})
	}
}

func TestNewWithHostname(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/farm.json", request.URL.Path)
		assert.Empty(t, request.Header.Get("Authorization"))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"name": "Test Farm"})
	}))
	defer server.Close()

	cli, err := farmclient.NewWithHostname(context.Background(), server.URL)
	require.NoError(t, err)

	info, err := cli.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Test Farm", info.Name)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer my-token", request.Header.Get("Authorization"))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"name": "Test Farm"})
	}))
	defer server.Close()

	cli, err := farmclient.NewWithToken(context.Background(), server.URL, "my-token")
	require.NoError(t, err)

	_, err = cli.GetInfo(context.Background())
	require.NoError(t, err)
}

func TestNewWithPassword_ObtainsTokenOnFirstRequest(t *testing.T) {
	t.Parallel()

	var tokenRequests int

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(writer http.ResponseWriter, request *http.Request) {
		tokenRequests++

		require.NoError(t, request.ParseForm())
		assert.Equal(t, "password", request.Form.Get("grant_type"))
		assert.Equal(t, "farm", request.Form.Get("client_id"))
		assert.Equal(t, "user_access", request.Form.Get("scope"))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"access_token": "granted",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/farm.json", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer granted", request.Header.Get("Authorization"))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"name": "Test Farm"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	cli, err := farmclient.NewWithPassword(context.Background(), server.URL, "farmer", "secret")
	require.NoError(t, err)

	// Two requests, one token exchange.
	_, err = cli.GetInfo(context.Background())
	require.NoError(t, err)
	_, err = cli.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tokenRequests)
}
