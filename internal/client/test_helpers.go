package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmhand-io/farmos-client/internal/auth"
	internalhttp "github.com/farmhand-io/farmos-client/internal/http"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// NewTestClient creates an unauthenticated client against the given base
// URL, with an in-memory vocabulary cache.
func NewTestClient(baseURL string) *Client {
	httpClient := internalhttp.NewClient(baseURL, nil)

	client := &Client{
		httpClient:   httpClient,
		csrfProvider: auth.NewCSRFProvider(baseURL, nil),
		baseURL:      httpClient.BaseURL(),
		cache:        farmos.NewMemoryCache(10),
		cacheTTL:     time.Minute,
	}

	client.initializeResourceClients()

	return client
}

// writeJSON writes v as a JSON response body.
func writeJSON(t *testing.T, writer http.ResponseWriter, status int, v interface{}) {
	t.Helper()
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	require.NoError(t, json.NewEncoder(writer).Encode(v))
}

// pageEnvelope builds a farmOS list envelope for the given page of a
// paginated endpoint. lastPage is the zero-based final page index.
func pageEnvelope[T any](baseURL, path string, page, lastPage int, list []T) farmos.PageResponse[T] {
	pageURL := func(p int) string {
		return fmt.Sprintf("%s%s?page=%d", baseURL, path, p)
	}

	return farmos.PageResponse[T]{
		List:  list,
		First: pageURL(0),
		Self:  pageURL(page),
		Last:  pageURL(lastPage),
	}
}

// TestGetOperation drives a single-record GET test.
type TestGetOperation[T any] struct {
	Name         string
	ID           farmos.ID
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      bool
	ErrMessage   string
}

// RunGetTests runs a series of single-record GET tests.
func RunGetTests[T any](
	t *testing.T,
	tests []TestGetOperation[T],
	getFunc func(*Client) func(context.Context, farmos.ID) (*T, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, http.MethodGet, request.Method)
				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))
			defer server.Close()

			client := NewTestClient(server.URL)

			getFn := getFunc(client)
			result, err := getFn(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}

// TestWriteOperation drives a create or update test.
type TestWriteOperation[T any] struct {
	Name           string
	ID             farmos.ID
	Record         *T
	ExpectedPath   string
	ExpectedMethod string
	StatusCode     int
	Response       interface{}
	WantErr        bool
	ErrMessage     string
	Validate       func(*testing.T, *farmos.WriteResult)
}

// RunWriteTests runs a series of create or update tests.
func RunWriteTests[T any](
	t *testing.T,
	tests []TestWriteOperation[T],
	writeFunc func(*Client, TestWriteOperation[T]) (*farmos.WriteResult, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, testCase.ExpectedMethod, request.Method)

				var body T
				assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))

				writeJSON(t, writer, testCase.StatusCode, testCase.Response)
			}))
			defer server.Close()

			client := NewTestClient(server.URL)
			result, err := writeFunc(client, testCase)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)

				if testCase.Validate != nil {
					testCase.Validate(t, result)
				}
			}
		})
	}
}

// RunDeleteTest runs a single delete test against the expected path.
func RunDeleteTest(
	t *testing.T,
	expectedPath string,
	deleteFunc func(*Client, context.Context) error,
) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, expectedPath, request.URL.Path)
		assert.Equal(t, http.MethodDelete, request.Method)
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTestClient(server.URL)
	require.NoError(t, deleteFunc(client, context.Background()))
}
