package farmos

import (
	"context"
	"fmt"
)

// MaxIDsPerRequest caps how many ids a single batched list request may
// carry. Indexed id parameters are around 10-15 characters each, so 100
// keeps the request URL safely under the ~2000 character limit common to
// proxies and older servers.
const MaxIDsPerRequest = 100

// ChunkIDs partitions ids into chunks of at most MaxIDsPerRequest,
// preserving order.
func ChunkIDs(ids []ID) [][]ID {
	if len(ids) == 0 {
		return nil
	}

	chunks := make([][]ID, 0, (len(ids)+MaxIDsPerRequest-1)/MaxIDsPerRequest)

	for start := 0; start < len(ids); start += MaxIDsPerRequest {
		end := start + MaxIDsPerRequest
		if end > len(ids) {
			end = len(ids)
		}

		chunks = append(chunks, ids[start:end])
	}

	return chunks
}

// FetchBatched fetches records by id in sequential chunks of
// MaxIDsPerRequest, concatenating each chunk's list in order. One request
// is outstanding at a time. base params (if any) are copied into every
// chunk request.
func FetchBatched[T any](ctx context.Context, client PageClient[T], path, param string, ids []ID, base *QueryParams) ([]T, error) {
	var all []T

	for _, chunk := range ChunkIDs(ids) {
		params := base.Clone().WithIndexedIDs(param, chunk...)

		resp, err := client.ListWithPath(ctx, path, params)
		if err != nil {
			return nil, fmt.Errorf("fetching batch of %d ids: %w", len(chunk), err)
		}

		all = append(all, resp.List...)
	}

	return all, nil
}
