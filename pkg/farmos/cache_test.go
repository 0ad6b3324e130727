package farmos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(10)
	ctx := context.Background()

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheKeyNotFound)

	entry := &CacheEntry{Data: []byte("3"), ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, cache.Set(ctx, "vocabulary:farm_areas", entry))

	got, err := cache.Get(ctx, "vocabulary:farm_areas")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), got.Data)
	assert.True(t, cache.Has(ctx, "vocabulary:farm_areas"))
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "stale", &CacheEntry{
		Data:      []byte("x"),
		ExpiresAt: time.Now().Add(-time.Second),
	}))

	_, err := cache.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrCacheEntryExpired)
	assert.False(t, cache.Has(ctx, "stale"))
}

func TestMemoryCache_ZeroExpiryNeverExpires(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pinned", &CacheEntry{Data: []byte("x")}))

	_, err := cache.Get(ctx, "pinned")
	assert.NoError(t, err)
}

func TestMemoryCache_FIFOEviction(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", &CacheEntry{Data: []byte("1")}))
	require.NoError(t, cache.Set(ctx, "b", &CacheEntry{Data: []byte("2")}))
	require.NoError(t, cache.Set(ctx, "c", &CacheEntry{Data: []byte("3")}))

	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))
	assert.True(t, cache.Has(ctx, "c"))
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", &CacheEntry{Data: []byte("1")}))
	require.NoError(t, cache.Set(ctx, "b", &CacheEntry{Data: []byte("2")}))

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "b"))
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", &CacheEntry{Data: []byte("1")}))

	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "a"))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *CacheConfig
		wantType interface{}
		wantErr  error
	}{
		{
			name:     "nil config defaults to memory",
			config:   nil,
			wantType: &MemoryCache{},
		},
		{
			name:     "memory",
			config:   &CacheConfig{Type: CacheTypeMemory},
			wantType: &MemoryCache{},
		},
		{
			name:     "none",
			config:   &CacheConfig{Type: CacheTypeNone},
			wantType: &NoOpCache{},
		},
		{
			name:    "nats without config",
			config:  &CacheConfig{Type: CacheTypeNATS},
			wantErr: ErrNATSConfigRequired,
		},
		{
			name:    "unsupported type",
			config:  &CacheConfig{Type: CacheType("redis")},
			wantErr: ErrUnsupportedCacheType,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cache, err := NewCacheFromConfig(testCase.config)

			if testCase.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, testCase.wantErr)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, testCase.wantType, cache)
		})
	}
}

func TestSanitizeKey_MatchesKVCharset(t *testing.T) {
	t.Parallel()

	// JetStream KV only accepts keys matching [-/_=.a-zA-Z0-9]+.
	validKey := regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)

	tests := []struct {
		key  string
		want string
	}{
		{key: "vocabulary:farm_areas", want: "vocabulary.farm_areas"},
		{key: "lookup?name=North field", want: "lookup.name.North_field"},
		{key: "plain-key", want: "plain-key"},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.key, func(t *testing.T) {
			t.Parallel()

			got := sanitizeKey(testCase.key)
			assert.Equal(t, testCase.want, got)
			assert.Regexp(t, validKey, got)
		})
	}
}
