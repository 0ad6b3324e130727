package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/farmhand-io/farmos-client/internal/http"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// TermsClient implements farmos.TermsClient.
type TermsClient struct {
	httpClient *http.Client
}

// NewTermsClient creates a new taxonomy terms client.
func NewTermsClient(httpClient *http.Client) *TermsClient {
	return &TermsClient{httpClient: httpClient}
}

// Get implements farmos.TermsClient.Get.
func (c *TermsClient) Get(ctx context.Context, tid farmos.ID) (*farmos.Term, error) {
	path := fmt.Sprintf("/taxonomy_term/%s.json", tid)
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting term: %w", err)
	}

	var term farmos.Term
	if err := json.Unmarshal(resp.Body, &term); err != nil {
		return nil, fmt.Errorf("parsing term response: %w", err)
	}

	return &term, nil
}

// ListWithPath implements farmos.PageClient for terms.
func (c *TermsClient) ListWithPath(ctx context.Context, path string, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Term], error) {
	return listPage[farmos.Term](ctx, c.httpClient, path, params)
}

// List implements farmos.TermsClient.List.
func (c *TermsClient) List(ctx context.Context, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Term], error) {
	page, err := c.ListWithPath(ctx, "/taxonomy_term.json", params)
	if err != nil {
		return nil, fmt.Errorf("listing terms: %w", err)
	}

	return page, nil
}

// ListAll implements farmos.TermsClient.ListAll, walking every page.
func (c *TermsClient) ListAll(ctx context.Context, params *farmos.QueryParams) ([]farmos.Term, error) {
	terms, err := farmos.FetchAllPages[farmos.Term](ctx, c, "/taxonomy_term.json", params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing all terms: %w", err)
	}

	return terms, nil
}

// Create implements farmos.TermsClient.Create.
func (c *TermsClient) Create(ctx context.Context, term *farmos.Term) (*farmos.WriteResult, error) {
	resp, err := c.httpClient.Post(ctx, "/taxonomy_term", term)
	if err != nil {
		return nil, fmt.Errorf("creating term: %w", err)
	}

	var result farmos.WriteResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing term response: %w", err)
	}

	return &result, nil
}

// Update implements farmos.TermsClient.Update.
func (c *TermsClient) Update(ctx context.Context, tid farmos.ID, term *farmos.Term) (*farmos.WriteResult, error) {
	path := fmt.Sprintf("/taxonomy_term/%s", tid)
	resp, err := c.httpClient.Put(ctx, path, term)
	if err != nil {
		return nil, fmt.Errorf("updating term: %w", err)
	}

	var result farmos.WriteResult
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			return nil, fmt.Errorf("parsing term response: %w", err)
		}
	}

	result.ID = tid
	result.URI = recordURI(c.httpClient.BaseURL(), "taxonomy_term", tid)
	result.Resource = "taxonomy_term"

	return &result, nil
}
