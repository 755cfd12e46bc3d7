package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheVersionInitialises(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	ver, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	require.NoError(t, cache.Bump(ctx))
	ver, err = cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)
}

func TestCacheBuildKeyChangesAfterBump(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "laporan", "neraca-saldo")
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	after, err := cache.BuildKey(ctx, "laporan", "neraca-saldo")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestCacheFetchJSONCachesLoaderResult(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return map[string]string{"laporan": "Neraca Saldo"}, nil
	}

	var first map[string]string
	require.NoError(t, cache.FetchJSON(ctx, "laporan:test:1", &first, loader))
	var second map[string]string
	require.NoError(t, cache.FetchJSON(ctx, "laporan:test:1", &second, loader))

	assert.Equal(t, 1, calls, "second fetch must hit the cache")
	assert.Equal(t, first, second)
}

func TestCacheNilClientPassesThrough(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "laporan", "neraca-saldo")
	require.NoError(t, err)
	assert.Equal(t, "laporan:neraca-saldo", key)

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return map[string]string{"k": "v"}, nil
	}
	var out map[string]string
	require.NoError(t, cache.FetchJSON(ctx, key, &out, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &out, loader))
	assert.Equal(t, 2, calls, "without redis every fetch runs the loader")
	require.NoError(t, cache.Bump(ctx))
}
