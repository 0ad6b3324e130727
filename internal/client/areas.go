package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farmhand-io/farmos-client/internal/http"
	"github.com/farmhand-io/farmos-client/pkg/farmos"
)

// farmAreasVocabulary is the machine name of the vocabulary that holds
// area terms.
const farmAreasVocabulary = "farm_areas"

// vidCacheKey is the cache key under which the resolved vocabulary id is
// stored.
const vidCacheKey = "vocabulary:" + farmAreasVocabulary

// AreasClient implements farmos.AreasClient. Areas are taxonomy terms in
// the farm_areas vocabulary, so every operation resolves that
// vocabulary's id first. The resolution is cached; configure
// CacheTypeNone to look it up on every call instead.
type AreasClient struct {
	httpClient   *http.Client
	vocabularies farmos.VocabulariesClient
	cache        farmos.Cache
	cacheTTL     time.Duration
}

// NewAreasClient creates a new areas client.
func NewAreasClient(httpClient *http.Client, vocabularies farmos.VocabulariesClient, cache farmos.Cache, cacheTTL time.Duration) *AreasClient {
	return &AreasClient{
		httpClient:   httpClient,
		vocabularies: vocabularies,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// resolveVID returns the farm_areas vocabulary id, from cache when
// possible.
func (c *AreasClient) resolveVID(ctx context.Context) (farmos.ID, error) {
	if entry, err := c.cache.Get(ctx, vidCacheKey); err == nil {
		var vid farmos.ID
		if err := vid.UnmarshalJSON(entry.Data); err == nil {
			return vid, nil
		}
	}

	vocabulary, err := c.vocabularies.GetByMachineName(ctx, farmAreasVocabulary)
	if err != nil {
		return 0, fmt.Errorf("resolving area vocabulary: %w", err)
	}

	// Best effort; a failed cache write just costs a lookup next time.
	_ = c.cache.Set(ctx, vidCacheKey, &farmos.CacheEntry{
		Data:      []byte(vocabulary.VID.String()),
		ExpiresAt: time.Now().Add(c.cacheTTL),
	})

	return vocabulary.VID, nil
}

// Get implements farmos.AreasClient.Get.
func (c *AreasClient) Get(ctx context.Context, tid farmos.ID) (*farmos.Area, error) {
	vid, err := c.resolveVID(ctx)
	if err != nil {
		return nil, err
	}

	params := farmos.NewQueryParams().WithID("vocabulary", vid).WithID("tid", tid)

	page, err := c.ListWithPath(ctx, "/taxonomy_term.json", params)
	if err != nil {
		return nil, fmt.Errorf("getting area: %w", err)
	}

	if len(page.List) == 0 {
		return nil, fmt.Errorf("%w: tid %s", ErrAreaNotFound, tid)
	}

	return &page.List[0], nil
}

// ListWithPath implements farmos.PageClient for areas.
func (c *AreasClient) ListWithPath(ctx context.Context, path string, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Area], error) {
	return listPage[farmos.Area](ctx, c.httpClient, path, params)
}

// List implements farmos.AreasClient.List, filtering terms by the
// resolved vocabulary.
func (c *AreasClient) List(ctx context.Context, params *farmos.QueryParams) (*farmos.PageResponse[farmos.Area], error) {
	vid, err := c.resolveVID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := c.ListWithPath(ctx, "/taxonomy_term.json", params.Clone().WithID("vocabulary", vid))
	if err != nil {
		return nil, fmt.Errorf("listing areas: %w", err)
	}

	return page, nil
}

// ListAll implements farmos.AreasClient.ListAll, walking every page.
func (c *AreasClient) ListAll(ctx context.Context, params *farmos.QueryParams) ([]farmos.Area, error) {
	vid, err := c.resolveVID(ctx)
	if err != nil {
		return nil, err
	}

	areas, err := farmos.FetchAllPages[farmos.Area](ctx, c, "/taxonomy_term.json", params.Clone().WithID("vocabulary", vid), nil)
	if err != nil {
		return nil, fmt.Errorf("listing all areas: %w", err)
	}

	return areas, nil
}

// Create implements farmos.AreasClient.Create. The term is attached to
// the farm_areas vocabulary before it is sent.
func (c *AreasClient) Create(ctx context.Context, area *farmos.Area) (*farmos.WriteResult, error) {
	vid, err := c.resolveVID(ctx)
	if err != nil {
		return nil, err
	}

	area.Vocabulary = &farmos.ResourceRef{ID: vid, Resource: "taxonomy_vocabulary"}

	resp, err := c.httpClient.Post(ctx, "/taxonomy_term", area)
	if err != nil {
		return nil, fmt.Errorf("creating area: %w", err)
	}

	var result farmos.WriteResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing area response: %w", err)
	}

	return &result, nil
}

// Update implements farmos.AreasClient.Update.
func (c *AreasClient) Update(ctx context.Context, tid farmos.ID, area *farmos.Area) (*farmos.WriteResult, error) {
	vid, err := c.resolveVID(ctx)
	if err != nil {
		return nil, err
	}

	area.Vocabulary = &farmos.ResourceRef{ID: vid, Resource: "taxonomy_vocabulary"}

	path := fmt.Sprintf("/taxonomy_term/%s", tid)
	resp, err := c.httpClient.Put(ctx, path, area)
	if err != nil {
		return nil, fmt.Errorf("updating area: %w", err)
	}

	var result farmos.WriteResult
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			return nil, fmt.Errorf("parsing area response: %w", err)
		}
	}

	result.ID = tid
	result.URI = recordURI(c.httpClient.BaseURL(), "taxonomy_term", tid)
	result.Resource = "taxonomy_term"

	return &result, nil
}

// Delete implements farmos.AreasClient.Delete. Terms are deleted by
// tid alone, so no vocabulary lookup is needed.
func (c *AreasClient) Delete(ctx context.Context, tid farmos.ID) error {
	path := fmt.Sprintf("/taxonomy_term/%s", tid)
	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting area: %w", err)
	}

	return nil
}
