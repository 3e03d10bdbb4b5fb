package geocode_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/geocode"
)

func TestCachedReverseStoresAndServes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	calls := 0
	next := geocode.ReverserFunc(func(context.Context, float64, float64) (geocode.Address, error) {
		calls++
		return geocode.Address{Text: "Rue A, Oran", City: "Oran"}, nil
	})
	cached := &geocode.Cached{Next: next, Client: client, TTL: time.Hour, Logger: zerolog.Nop()}

	for i := 0; i < 3; i++ {
		addr, err := cached.Reverse(context.Background(), 35.697601, -0.633701)
		require.NoError(t, err)
		require.Equal(t, "Oran", addr.City)
	}
	require.Equal(t, 1, calls)
	require.True(t, mr.Exists(geocode.CacheKey(35.697601, -0.633701)))

	mr.FastForward(2 * time.Hour)
	_, err := cached.Reverse(context.Background(), 35.697601, -0.633701)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestCachedReverseDoesNotCacheFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	next := geocode.ReverserFunc(func(context.Context, float64, float64) (geocode.Address, error) {
		return geocode.Address{}, geocode.ErrUnavailable
	})
	cached := &geocode.Cached{Next: next, Client: client, TTL: time.Hour}
	_, err := cached.Reverse(context.Background(), 36, 3)
	require.True(t, errors.Is(err, geocode.ErrUnavailable))
	require.Empty(t, mr.Keys())
}

func TestCacheKeyRounds(t *testing.T) {
	require.Equal(t, "geocode:reverse:36.75380:3.05880", geocode.CacheKey(36.7538, 3.0588))
}
