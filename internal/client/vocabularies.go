package client

import (
	"context"
	"fmt"

	"github.com/farmhand-io/farmos-client/internal/http"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// VocabulariesClient implements farmos.VocabulariesClient.
type VocabulariesClient struct {
	httpClient *http.Client
}

// NewVocabulariesClient creates a new taxonomy vocabularies client.
func NewVocabulariesClient(httpClient *http.Client) *VocabulariesClient {
	return &VocabulariesClient{httpClient: httpClient}
}

// ListWithPath implements farmos.PageClient for vocabularies.
func (c *VocabulariesClient) ListWithPath(ctx context.Context, path string, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Vocabulary], error) {
	return listPage[farmos.Vocabulary](ctx, c.httpClient, path, params)
}

// List implements farmos.VocabulariesClient.List.
func (c *VocabulariesClient) List(ctx context.Context) ([]farmos.Vocabulary, error) {
	page, err := c.ListWithPath(ctx, "/taxonomy_vocabulary.json", nil)
	if err != nil {
		return nil, fmt.Errorf("listing vocabularies: %w", err)
	}

	return page.List, nil
}

// GetByMachineName implements farmos.VocabulariesClient.GetByMachineName.
func (c *VocabulariesClient) GetByMachineName(ctx context.Context, machineName string) (*farmos.Vocabulary, error) {
	params := farmos.NewQueryParams().WithParam("machine_name", machineName)

	page, err := c.ListWithPath(ctx, "/taxonomy_vocabulary.json", params)
	if err != nil {
		return nil, fmt.Errorf("looking up vocabulary %q: %w", machineName, err)
	}

	if len(page.List) == 0 {
		return nil, fmt.Errorf("%w: %s", farmos.ErrVocabularyNotFound, machineName)
	}

	return &page.List[0], nil
}
