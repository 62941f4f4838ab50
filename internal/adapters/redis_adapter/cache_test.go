// internal/adapters/redis_adapter/cache_test.go
package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/acrelle/supplytrack-be/internal/adapters/redis_adapter"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/test/helpers"
)

type cachedPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupCache(t *testing.T) (ports.CacheRepository, *helpers.TestRedis) {
	t.Helper()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Hour, helpers.TestLogger())
	return cache, tr
}

func TestCache_SetAndGet(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	stored := cachedPayload{Name: "oat flour", Count: 3}
	require.NoError(t, cache.Set(ctx, "sup:item", stored))

	var loaded cachedPayload
	require.NoError(t, cache.Get(ctx, "sup:item", &loaded))
	assert.Equal(t, stored, loaded)
}

func TestCache_GetMiss(t *testing.T) {
	cache, _ := setupCache(t)

	var dest cachedPayload
	err := cache.Get(context.Background(), "missing", &dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
}

func TestCache_SetWithTTLExpires(t *testing.T) {
	cache, tr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetWithTTL(ctx, "dash:stats", cachedPayload{Name: "stats"}, time.Minute))

	var dest cachedPayload
	require.NoError(t, cache.Get(ctx, "dash:stats", &dest))

	tr.Server.FastForward(2 * time.Minute)

	err := cache.Get(ctx, "dash:stats", &dest)
	assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
}

func TestCache_Delete(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", 1))
	require.NoError(t, cache.Set(ctx, "b", 2))
	require.NoError(t, cache.Delete(ctx, "a", "b"))

	var dest int
	assert.ErrorIs(t, cache.Get(ctx, "a", &dest), redis_a.ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "b", &dest), redis_a.ErrCacheMiss)

	// Deleting nothing is a no-op, not an error.
	require.NoError(t, cache.Delete(ctx))
}

func TestCache_DeletePattern(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "dash:stats", 1))
	require.NoError(t, cache.Set(ctx, "dash:alerts", 2))
	require.NoError(t, cache.Set(ctx, "sup:list", 3))

	require.NoError(t, cache.DeletePattern(ctx, "dash:*"))

	var dest int
	assert.ErrorIs(t, cache.Get(ctx, "dash:stats", &dest), redis_a.ErrCacheMiss)
	assert.ErrorIs(t, cache.Get(ctx, "dash:alerts", &dest), redis_a.ErrCacheMiss)
	require.NoError(t, cache.Get(ctx, "sup:list", &dest))
	assert.Equal(t, 3, dest)
}

func TestCache_GetOrSet(t *testing.T) {
	t.Run("miss_fetches_and_caches", func(t *testing.T) {
		cache, _ := setupCache(t)
		ctx := context.Background()

		calls := 0
		fetch := func() (interface{}, error) {
			calls++
			return cachedPayload{Name: "fetched", Count: calls}, nil
		}

		var first cachedPayload
		require.NoError(t, cache.GetOrSet(ctx, "dash:stats", &first, fetch, time.Minute))
		assert.Equal(t, cachedPayload{Name: "fetched", Count: 1}, first)

		// Second read is served from cache; fetch is not called again.
		var second cachedPayload
		require.NoError(t, cache.GetOrSet(ctx, "dash:stats", &second, fetch, time.Minute))
		assert.Equal(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("fetch_error_propagates", func(t *testing.T) {
		cache, _ := setupCache(t)

		var dest cachedPayload
		err := cache.GetOrSet(context.Background(), "dash:stats", &dest,
			func() (interface{}, error) {
				return nil, errors.New("query failed")
			}, time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query failed")
	})
}

func TestCache_Ping(t *testing.T) {
	cache, tr := setupCache(t)

	require.NoError(t, cache.Ping(context.Background()))

	tr.Server.Close()
	assert.Error(t, cache.Ping(context.Background()))
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "dash:stats", redis_a.BuildKey(redis_a.PrefixDashboard, "stats"))
	assert.Equal(t, "report:abc:xlsx", redis_a.BuildKey(redis_a.PrefixReport, "abc", "xlsx"))
	assert.Equal(t, "session", redis_a.BuildKey(redis_a.PrefixSession))
}
