package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/farmhand-io/farmos-client/internal/http"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// AssetsClient implements farmos.AssetsClient.
type AssetsClient struct {
	httpClient *http.Client
}

// NewAssetsClient creates a new assets client.
func NewAssetsClient(httpClient *http.Client) *AssetsClient {
	return &AssetsClient{httpClient: httpClient}
}

// Get implements farmos.AssetsClient.Get.
func (c *AssetsClient) Get(ctx context.Context, id farmos.ID) (*farmos.Asset, error) {
	path := fmt.Sprintf("/farm_asset/%s.json", id)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}

	var asset farmos.Asset
	if err := json.Unmarshal(resp.Body, &asset); err != nil {
		return nil, fmt.Errorf("parsing asset response: %w", err)
	}

	return &asset, nil
}

// ListWithPath implements farmos.PageClient for assets.
func (c *AssetsClient) ListWithPath(ctx context.Context, path string, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Asset], error) {
	return listPage[farmos.Asset](ctx, c.httpClient, path, params)
}

// withArchivedDefault adds archived=0 unless the caller set an archived
// filter of their own.
func withArchivedDefault(params *farmos.QueryParams) *farmos.QueryParams {
	if params != nil {
		if _, ok := params.Params["archived"]; ok {
			return params
		}
	}

	return params.Clone().WithFlag("archived", false)
}

// List implements farmos.AssetsClient.List. Archived assets are excluded
// unless the archived filter is set.
func (c *AssetsClient) List(ctx context.Context, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Asset], error) {
	page, err := c.ListWithPath(ctx, "/farm_asset.json", withArchivedDefault(params))
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	return page, nil
}

// ListAll implements farmos.AssetsClient.ListAll, walking every page.
func (c *AssetsClient) ListAll(ctx context.Context, params *farmos.QueryParams) ([]farmos.Asset, error) {
	assets, err := farmos.FetchAllPages[farmos.Asset](ctx, c, "/farm_asset.json", withArchivedDefault(params), nil)
	if err != nil {
		return nil, fmt.Errorf("listing all assets: %w", err)
	}

	return assets, nil
}

// Create implements farmos.AssetsClient.Create.
func (c *AssetsClient) Create(ctx context.Context, asset *farmos.Asset) (*farmos.WriteResult, error) {
	resp, err := c.httpClient.Post(ctx, "/farm_asset", asset)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	var result farmos.WriteResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing asset response: %w", err)
	}

	return &result, nil
}

// Update implements farmos.AssetsClient.Update.
func (c *AssetsClient) Update(ctx context.Context, id farmos.ID, asset *farmos.Asset) (*farmos.WriteResult, error) {
	path := fmt.Sprintf("/farm_asset/%s", id)
	resp, err := c.httpClient.Put(ctx, path, asset)
	if err != nil {
		return nil, fmt.Errorf("updating asset: %w", err)
	}

	var result farmos.WriteResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing asset response: %w", err)
	}

	return &result, nil
}

// Delete implements farmos.AssetsClient.Delete.
func (c *AssetsClient) Delete(ctx context.Context, id farmos.ID) error {
	path := fmt.Sprintf("/farm_asset/%s", id)
	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}

	return nil
}
