package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadThroughCache_RendersOnMissThenCaches(t *testing.T) {
	calls := 0
	render := func(ctx context.Context, input string) (string, error) {
		calls++
		return "rendered:" + input, nil
	}
	cache := NewInMemoryCacheManager[string, string]("reports", DefaultExpiration, DefaultCleanupInterval)
	rt := NewReadThroughCache[string, string, string](cache, render, false)

	value, err := rt.Get(context.Background(), "key", "report", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "rendered:report", value)
	require.Equal(t, 1, calls)

	value, err = rt.Get(context.Background(), "key", "report", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "rendered:report", value)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	calls := 0
	render := func(ctx context.Context, input string) (string, error) {
		calls++
		return "rendered", nil
	}
	cache := NewInMemoryCacheManager[string, string]("reports", DefaultExpiration, DefaultCleanupInterval)
	rt := NewReadThroughCache[string, string, string](cache, render, true)

	for range 3 {
		_, err := rt.Get(context.Background(), "key", "report", time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 3, calls)
}

func TestReadThroughCache_ErrorNotCached(t *testing.T) {
	boom := errors.New("render failed")
	calls := 0
	render := func(ctx context.Context, input string) (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "ok", nil
	}
	cache := NewInMemoryCacheManager[string, string]("reports", DefaultExpiration, DefaultCleanupInterval)
	rt := NewReadThroughCache[string, string, string](cache, render, false)

	_, err := rt.Get(context.Background(), "key", "report", time.Minute)
	require.ErrorIs(t, err, boom)

	value, err := rt.Get(context.Background(), "key", "report", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "ok", value)
}
