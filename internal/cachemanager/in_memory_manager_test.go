package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheManager_SetAndGet(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("reports", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(context.Background(), "sensor:health_report:abc", "# Health", DefaultExpiration)

	value, found := cache.Get(context.Background(), "sensor:health_report:abc")
	require.True(t, found)
	require.Equal(t, "# Health", value)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("reports", DefaultExpiration, DefaultCleanupInterval)

	value, found := cache.Get(context.Background(), "nope")
	require.False(t, found)
	require.Empty(t, value)
}

func TestInMemoryCacheManager_Expiration(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("reports", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(context.Background(), "k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, found := cache.Get(context.Background(), "k")
	require.False(t, found)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("plots", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, "a", 1, DefaultExpiration)
	cache.Set(ctx, "b", 2, DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "a"))
	_, found := cache.Get(ctx, "a")
	require.False(t, found)
	_, found = cache.Get(ctx, "b")
	require.True(t, found)

	require.NoError(t, cache.Flush(ctx))
	_, found = cache.Get(ctx, "b")
	require.False(t, found)
}
