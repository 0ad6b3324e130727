package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmhand-io/farmos-client/internal/auth"
	farmhttp "github.com/farmhand-io/farmos-client/internal/http"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// mockTokenManager returns a fixed token.
type mockTokenManager struct {
	token string
	err   error
	calls int
}

func (m *mockTokenManager) GetToken(ctx context.Context) (string, error) {
	m.calls++

	return m.token, m.err
}

func (m *mockTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

func (m *mockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// mockLogger collects debug lines.
type mockLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *mockLogger) log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *mockLogger) Debug(msg string, fields map[string]interface{}) { l.log(msg) }
func (l *mockLogger) Info(msg string, fields map[string]interface{})  { l.log(msg) }
func (l *mockLogger) Warn(msg string, fields map[string]interface{})  { l.log(msg) }
func (l *mockLogger) Error(msg string, fields map[string]interface{}) { l.log(msg) }

func (l *mockLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.msgs...)
}

func TestClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "/farm_asset.json", request.URL.Path)
		assert.Equal(t, "animal", request.URL.Query().Get("type"))
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
		assert.Equal(t, "application/json", request.Header.Get("Accept"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"list": []}`))
	}))
	defer server.Close()

	client := farmhttp.NewClient(server.URL, &mockTokenManager{token: "test-token"})

	query := url.Values{}
	query.Set("type", "animal")

	resp, err := client.Get(context.Background(), "/farm_asset.json", query)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"list": []}`, string(resp.Body))
}

func TestClient_Post_EncodesBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "Harvest", body["name"])

		writer.WriteHeader(http.StatusCreated)
		_, _ = writer.Write([]byte(`{"id": 7}`))
	}))
	defer server.Close()

	client := farmhttp.NewClient(server.URL, nil)

	resp, err := client.Post(context.Background(), "/log", map[string]string{"name": "Harvest"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestClient_CSRFTokenAttached(t *testing.T) {
	t.Parallel()

	var sessionRequests int

	mux := http.NewServeMux()
	mux.HandleFunc("/restws/session/token", func(writer http.ResponseWriter, request *http.Request) {
		sessionRequests++

		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
		_, _ = writer.Write([]byte("csrf-value"))
	})
	mux.HandleFunc("/log", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "csrf-value", request.Header.Get("X-CSRF-Token"))
		_, _ = writer.Write([]byte(`{"id": 1}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	provider := auth.NewCSRFProvider(server.URL, nil)
	client := farmhttp.NewClient(server.URL, &mockTokenManager{token: "test-token"}, farmhttp.WithCSRFProvider(provider))

	_, err := client.Post(context.Background(), "/log", map[string]string{"name": "one"})
	require.NoError(t, err)

	_, err = client.Post(context.Background(), "/log", map[string]string{"name": "two"})
	require.NoError(t, err)

	// The session token is fetched once and cached.
	assert.Equal(t, 1, sessionRequests)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"title": "Unauthorized", "detail": "token expired"}`))
	}))
	defer server.Close()

	client := farmhttp.NewClient(server.URL, nil)

	resp, err := client.Get(context.Background(), "/farm.json", nil)
	require.Error(t, err)

	// The raw response still comes back alongside the error.
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.True(t, farmos.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "token expired")
}

func TestClient_TokenManagerFailureStopsRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	manager := &mockTokenManager{err: farmos.ErrNoValidCredentials}
	client := farmhttp.NewClient(server.URL, manager)

	_, err := client.Get(context.Background(), "/farm.json", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, farmos.ErrNoValidCredentials)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var attempts int

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attempts++

		if attempts == 1 {
			writer.WriteHeader(http.StatusBadGateway)

			return
		}

		_, _ = writer.Write([]byte(`{"list": []}`))
	}))
	defer server.Close()

	client := farmhttp.NewClient(server.URL, nil,
		farmhttp.WithRetryConfig(2, time.Millisecond, 5*time.Millisecond))

	resp, err := client.Get(context.Background(), "/log.json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, attempts)
}

func TestClient_NoRetriesByDefault(t *testing.T) {
	t.Parallel()

	var attempts int

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attempts++
		writer.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := farmhttp.NewClient(server.URL, nil)

	_, err := client.Get(context.Background(), "/log.json", nil)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{}`))
	}))
	defer server.Close()

	logger := &mockLogger{}
	client := farmhttp.NewClient(server.URL, nil,
		farmhttp.WithLogger(logger), farmhttp.WithDebug(true))

	_, err := client.Get(context.Background(), "/farm.json", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"HTTP Request", "HTTP Response"}, logger.messages())
}

func TestClient_UserAgent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "farmhand/1.0", request.Header.Get("User-Agent"))
		_, _ = writer.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := farmhttp.NewClient(server.URL, nil, farmhttp.WithUserAgent("farmhand/1.0"))

	_, err := client.Get(context.Background(), "/farm.json", nil)
	require.NoError(t, err)
}

func TestClient_BaseURLTrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	client := farmhttp.NewClient("https://farm.example.com/", nil)
	assert.Equal(t, "https://farm.example.com", client.BaseURL())
}
