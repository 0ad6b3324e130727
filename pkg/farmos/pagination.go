package farmos

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// PageClient fetches one page of a list endpoint.
type PageClient[T any] interface {
	ListWithPath(ctx context.Context, path string, params *QueryParams) (*PageResponse[T], error)
}

// PaginationOptions configures the page walkers.
type PaginationOptions struct {
	// MaxPages bounds the walk. The farmOS "last" URL is the only
	// termination signal the server provides; a server that keeps
	// reporting a later last page would otherwise never terminate.
	MaxPages int
}

// DefaultPaginationOptions returns the default walker bounds.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{MaxPages: 1000}
}

// LastPage extracts the zero-based final page index from a page's "last"
// URL. A missing or unparsable last URL means the current page is the
// only page.
func LastPage[T any](resp *PageResponse[T]) int {
	if resp == nil || resp.Last == "" {
		return 0
	}

	parsed, err := url.Parse(resp.Last)
	if err != nil {
		return 0
	}

	page, err := strconv.Atoi(parsed.Query().Get("page"))
	if err != nil || page < 0 {
		return 0
	}

	return page
}

// FetchAllPages walks a paginated endpoint from page 0 through the
// server-declared last page, concatenating each page's list in arrival
// order. One request is outstanding at a time.
func FetchAllPages[T any](ctx context.Context, client PageClient[T], path string, params *QueryParams, opts *PaginationOptions) ([]T, error) {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	var all []T

	for page := 0; page < opts.MaxPages; page++ {
		pageParams := params.Clone().WithPage(page)

		resp, err := client.ListWithPath(ctx, path, pageParams)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		all = append(all, resp.List...)

		if page >= LastPage(resp) {
			return all, nil
		}
	}

	return all, nil
}

// PageIterator lazily walks a paginated endpoint one item at a time.
type PageIterator[T any] struct {
	ctx    context.Context
	client PageClient[T]
	path   string
	params *QueryParams
	opts   *PaginationOptions

	page     int
	lastPage int
	fetched  bool
	items    []T
	index    int
}

// NewPageIterator creates an iterator positioned before the first item.
func NewPageIterator[T any](ctx context.Context, client PageClient[T], path string, params *QueryParams) *PageIterator[T] {
	return &PageIterator[T]{
		ctx:    ctx,
		client: client,
		path:   path,
		params: params,
		opts:   DefaultPaginationOptions(),
	}
}

func (it *PageIterator[T]) fetch() error {
	resp, err := it.client.ListWithPath(it.ctx, it.path, it.params.Clone().WithPage(it.page))
	if err != nil {
		return fmt.Errorf("fetching page %d: %w", it.page, err)
	}

	it.items = resp.List
	it.index = 0
	it.lastPage = LastPage(resp)
	it.fetched = true

	return nil
}

// HasNext reports whether another item is available. It is optimistic
// before the first fetch.
func (it *PageIterator[T]) HasNext() bool {
	if !it.fetched {
		return true
	}

	if it.index < len(it.items) {
		return true
	}

	return it.page < it.lastPage && it.page < it.opts.MaxPages-1
}

// Next returns the next item, fetching the next page when the current one
// is exhausted.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	if !it.fetched {
		if err := it.fetch(); err != nil {
			return zero, err
		}
	}

	for it.index >= len(it.items) {
		if it.page >= it.lastPage {
			return zero, ErrNoMoreItems
		}

		it.page++
		if err := it.fetch(); err != nil {
			return zero, err
		}
	}

	item := it.items[it.index]
	it.index++

	return item, nil
}

// All collects every remaining item.
func (it *PageIterator[T]) All() ([]T, error) {
	var all []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				break
			}

			return nil, err
		}

		all = append(all, item)
	}

	return all, nil
}

// ForEach applies fn to every remaining item, stopping at the first error.
func (it *PageIterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}

// PageStreamResult carries one page of a streamed walk.
type PageStreamResult[T any] struct {
	Page  int
	Items []T
	Err   error
}

// StreamPages walks the endpoint sequentially, delivering one result per
// page on the returned channel. The channel is closed after the last page
// or the first error.
func StreamPages[T any](ctx context.Context, client PageClient[T], path string, params *QueryParams, opts *PaginationOptions) <-chan PageStreamResult[T] {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	results := make(chan PageStreamResult[T])

	go func() {
		defer close(results)

		for page := 0; page < opts.MaxPages; page++ {
			resp, err := client.ListWithPath(ctx, path, params.Clone().WithPage(page))
			if err != nil {
				select {
				case results <- PageStreamResult[T]{Page: page, Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageStreamResult[T]{Page: page, Items: resp.List}:
			case <-ctx.Done():
				return
			}

			if page >= LastPage(resp) {
				return
			}
		}
	}()

	return results
}
