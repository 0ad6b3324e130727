package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/farmhand-io/farmos-client/internal/http"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// LogsClient implements farmos.LogsClient.
type LogsClient struct {
	httpClient *http.Client
}

// NewLogsClient creates a new logs client.
func NewLogsClient(httpClient *http.Client) *LogsClient {
	return &LogsClient{httpClient: httpClient}
}

// Get implements farmos.LogsClient.Get.
func (c *LogsClient) Get(ctx context.Context, id farmos.ID) (*farmos.Log, error) {
	path := fmt.Sprintf("/log/%s.json", id)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting log: %w", err)
	}

	var log farmos.Log
	if err := json.Unmarshal(resp.Body, &log); err != nil {
		return nil, fmt.Errorf("parsing log response: %w", err)
	}

	return &log, nil
}

// GetByIDs implements farmos.LogsClient.GetByIDs: ids are fetched in
// sequential chunks of farmos.MaxIDsPerRequest, concatenated in order.
func (c *LogsClient) GetByIDs(ctx context.Context, ids []farmos.ID) ([]farmos.Log, error) {
	logs, err := farmos.FetchBatched[farmos.Log](ctx, c, "/log.json", "id", ids, nil)
	if err != nil {
		return nil, fmt.Errorf("getting logs by id: %w", err)
	}

	return logs, nil
}

// ListWithPath implements farmos.PageClient for logs.
func (c *LogsClient) ListWithPath(ctx context.Context, path string, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Log], error) {
	return listPage[farmos.Log](ctx, c.httpClient, path, params)
}

// List implements farmos.LogsClient.List.
func (c *LogsClient) List(ctx context.Context, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Log], error) {
	page, err := c.ListWithPath(ctx, "/log.json", params)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}

	return page, nil
}

// ListAll implements farmos.LogsClient.ListAll, walking every page.
func (c *LogsClient) ListAll(ctx context.Context, params *farmos.QueryParams) ([]farmos.Log, error) {
	logs, err := farmos.FetchAllPages[farmos.Log](ctx, c, "/log.json", params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing all logs: %w", err)
	}

	return logs, nil
}

// Create implements farmos.LogsClient.Create. The server response is
// returned verbatim.
func (c *LogsClient) Create(ctx context.Context, log *farmos.Log) (*farmos.WriteResult, error) {
	resp, err := c.httpClient.Post(ctx, "/log", log)
	if err != nil {
		return nil, fmt.Errorf("creating log: %w", err)
	}

	var result farmos.WriteResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing log response: %w", err)
	}

	return &result, nil
}

// Update implements farmos.LogsClient.Update. The record's id, canonical
// uri, and resource name are merged over the server response.
func (c *LogsClient) Update(ctx context.Context, id farmos.ID, log *farmos.Log) (*farmos.WriteResult, error) {
	path := fmt.Sprintf("/log/%s", id)
	resp, err := c.httpClient.Put(ctx, path, log)
	if err != nil {
		return nil, fmt.Errorf("updating log: %w", err)
	}

	var result farmos.WriteResult
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			return nil, fmt.Errorf("parsing log response: %w", err)
		}
	}

	result.ID = id
	result.URI = recordURI(c.httpClient.BaseURL(), "log", id)
	result.Resource = "log"

	return &result, nil
}

// Send implements farmos.LogsClient.Send: a log without an ID is created,
// a log with an ID is updated.
func (c *LogsClient) Send(ctx context.Context, log *farmos.Log) (*farmos.WriteResult, error) {
	if log.ID == 0 {
		return c.Create(ctx, log)
	}

	return c.Update(ctx, log.ID, log)
}

// Delete implements farmos.LogsClient.Delete.
func (c *LogsClient) Delete(ctx context.Context, id farmos.ID) error {
	path := fmt.Sprintf("/log/%s", id)
	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting log: %w", err)
	}

	return nil
}
