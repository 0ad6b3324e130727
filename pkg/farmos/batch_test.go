package farmos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(n int) []ID {
	ids := make([]ID, n)
	for i := range ids {
		ids[i] = ID(i + 1)
	}

	return ids
}

func TestChunkIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		count      int
		wantChunks []int
	}{
		{name: "empty", count: 0, wantChunks: nil},
		{name: "below limit", count: 42, wantChunks: []int{42}},
		{name: "exactly the limit", count: 100, wantChunks: []int{100}},
		{name: "one over the limit", count: 101, wantChunks: []int{100, 1}},
		{name: "several chunks", count: 250, wantChunks: []int{100, 100, 50}},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			chunks := ChunkIDs(sequentialIDs(testCase.count))
			require.Len(t, chunks, len(testCase.wantChunks))

			next := ID(1)

			for i, chunk := range chunks {
				assert.Len(t, chunk, testCase.wantChunks[i])

				for _, id := range chunk {
					assert.Equal(t, next, id)
					next++
				}
			}
		})
	}
}

// batchRecorder records the id parameters of every request.
type batchRecorder struct {
	batches [][]string
	base    []string
}

func (c *batchRecorder) ListWithPath(ctx context.Context, path string, params *QueryParams) (*PageResponse[ID], error) {
	ids := append([]string(nil), params.Indexed["id"]...)
	c.batches = append(c.batches, ids)
	c.base = append(c.base, params.Params["type"])

	list := make([]ID, len(ids))
	for i := range list {
		list[i] = ID(i)
	}

	return &PageResponse[ID]{List: list}, nil
}

func TestFetchBatched(t *testing.T) {
	t.Parallel()

	recorder := &batchRecorder{}

	all, err := FetchBatched[ID](context.Background(), recorder, "/log.json", "id", sequentialIDs(250), nil)
	require.NoError(t, err)
	assert.Len(t, all, 250)

	require.Len(t, recorder.batches, 3)
	assert.Len(t, recorder.batches[0], 100)
	assert.Len(t, recorder.batches[1], 100)
	assert.Len(t, recorder.batches[2], 50)
	assert.Equal(t, "101", recorder.batches[1][0])
}

func TestFetchBatched_BaseParamsCopied(t *testing.T) {
	t.Parallel()

	recorder := &batchRecorder{}
	base := NewQueryParams().WithParam("type", "farm_activity")

	_, err := FetchBatched[ID](context.Background(), recorder, "/log.json", "id", sequentialIDs(150), base)
	require.NoError(t, err)
	assert.Equal(t, []string{"farm_activity", "farm_activity"}, recorder.base)

	// The caller's params are untouched by the chunk requests.
	assert.Empty(t, base.Indexed["id"])
}

func TestFetchBatched_Empty(t *testing.T) {
	t.Parallel()

	recorder := &batchRecorder{}

	all, err := FetchBatched[ID](context.Background(), recorder, "/log.json", "id", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, recorder.batches)
}
