package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

func TestAssetsClient_Get(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[farmos.Asset]{
		{
			Name:         "existing asset",
			ID:           42,
			ExpectedPath: "/farm_asset/42.json",
			StatusCode:   http.StatusOK,
			Response:     farmos.Asset{ID: 42, Name: "Dolly", Type: "animal"},
		},
		{
			Name:         "missing asset",
			ID:           9999,
			ExpectedPath: "/farm_asset/9999.json",
			StatusCode:   http.StatusNotFound,
			Response:     map[string]string{"title": "Not Found"},
			WantErr:      true,
			ErrMessage:   "Not Found",
		},
	}

	RunGetTests(t, tests, func(client *Client) func(context.Context, farmos.ID) (*farmos.Asset, error) {
		return client.Assets().Get
	})
}

func TestAssetsClient_Get_NotFoundType(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, http.StatusNotFound, map[string]string{"title": "Not Found"})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	_, err := client.Assets().Get(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, farmos.IsNotFound(err))
}

func TestAssetsClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/farm_asset.json", request.URL.Path)
		assert.Equal(t, "animal", request.URL.Query().Get("type"))

		page := pageEnvelope("http://"+request.Host, "/farm_asset.json", 0, 0, []farmos.Asset{
			{ID: 1, Name: "Dolly", Type: "animal"},
			{ID: 2, Name: "Molly", Type: "animal"},
		})
		writeJSON(t, writer, http.StatusOK, page)
	}))
	defer server.Close()

	client := NewTestClient(server.URL)
	params := farmos.NewQueryParams().WithParam("type", "animal")

	page, err := client.Assets().List(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, page.List, 2)
	assert.Equal(t, "Dolly", page.List[0].Name)
}

func TestAssetsClient_List_ExcludesArchivedByDefault(t *testing.T) {
	t.Parallel()

	var queries []string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		queries = append(queries, request.URL.Query().Encode())
		writeJSON(t, writer, http.StatusOK, pageEnvelope("http://"+request.Host, "/farm_asset.json", 0, 0, []farmos.Asset{}))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	_, err := client.Assets().List(context.Background(), nil)
	require.NoError(t, err)

	_, err = client.Assets().List(context.Background(), farmos.NewQueryParams().WithFlag("archived", true))
	require.NoError(t, err)

	_, err = client.Assets().ListAll(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, queries, 3)
	assert.Contains(t, queries[0], "archived=0")
	assert.Contains(t, queries[1], "archived=1")
	assert.NotContains(t, queries[1], "archived=0")
	assert.Contains(t, queries[2], "archived=0")
}

func TestAssetsClient_List_CallerParamsUnchanged(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, http.StatusOK, pageEnvelope("http://"+request.Host, "/farm_asset.json", 0, 0, []farmos.Asset{}))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)
	params := farmos.NewQueryParams().WithParam("type", "animal")

	_, err := client.Assets().List(context.Background(), params)
	require.NoError(t, err)

	// The default filter is added to a copy, not to the caller's params.
	assert.NotContains(t, params.Params, "archived")
}

func TestAssetsClient_ListAll(t *testing.T) {
	t.Parallel()

	const lastPage = 2

	var requestedPages []string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/farm_asset.json", request.URL.Path)

		pageParam := request.URL.Query().Get("page")
		requestedPages = append(requestedPages, pageParam)

		page, err := strconv.Atoi(pageParam)
		require.NoError(t, err)

		envelope := pageEnvelope("http://"+request.Host, "/farm_asset.json", page, lastPage, []farmos.Asset{
			{ID: farmos.ID(page + 1), Name: "asset"},
		})
		writeJSON(t, writer, http.StatusOK, envelope)
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	assets, err := client.Assets().ListAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, assets, lastPage+1)
	assert.Equal(t, []string{"0", "1", "2"}, requestedPages)
	assert.Equal(t, farmos.ID(1), assets[0].ID)
	assert.Equal(t, farmos.ID(3), assets[2].ID)
}

func TestAssetsClient_Create(t *testing.T) {
	t.Parallel()

	tests := []TestWriteOperation[farmos.Asset]{
		{
			Name:           "successful create",
			Record:         &farmos.Asset{Name: "Dolly", Type: "animal"},
			ExpectedPath:   "/farm_asset",
			ExpectedMethod: http.MethodPost,
			StatusCode:     http.StatusCreated,
			Response:       map[string]interface{}{"id": 42, "uri": "http://farm.example.com/farm_asset/42", "resource": "farm_asset"},
			Validate: func(t *testing.T, result *farmos.WriteResult) {
				t.Helper()
				assert.Equal(t, farmos.ID(42), result.ID)
				assert.Equal(t, "farm_asset", result.Resource)
			},
		},
		{
			Name:           "validation failure",
			Record:         &farmos.Asset{},
			ExpectedPath:   "/farm_asset",
			ExpectedMethod: http.MethodPost,
			StatusCode:     http.StatusUnprocessableEntity,
			Response:       map[string]string{"title": "Unprocessable Entity", "detail": "name is required"},
			WantErr:        true,
			ErrMessage:     "name is required",
		},
	}

	RunWriteTests(t, tests, func(client *Client, testCase TestWriteOperation[farmos.Asset]) (*farmos.WriteResult, error) {
		return client.Assets().Create(context.Background(), testCase.Record)
	})
}

func TestAssetsClient_Update(t *testing.T) {
	t.Parallel()

	tests := []TestWriteOperation[farmos.Asset]{
		{
			Name:           "successful update",
			ID:             42,
			Record:         &farmos.Asset{Name: "Dolly II"},
			ExpectedPath:   "/farm_asset/42",
			ExpectedMethod: http.MethodPut,
			StatusCode:     http.StatusOK,
			Response:       map[string]interface{}{"id": 42},
		},
	}

	RunWriteTests(t, tests, func(client *Client, testCase TestWriteOperation[farmos.Asset]) (*farmos.WriteResult, error) {
		return client.Assets().Update(context.Background(), testCase.ID, testCase.Record)
	})
}

func TestAssetsClient_Delete(t *testing.T) {
	t.Parallel()

	RunDeleteTest(t, "/farm_asset/42", func(client *Client, ctx context.Context) error {
		return client.Assets().Delete(ctx, 42)
	})
}
