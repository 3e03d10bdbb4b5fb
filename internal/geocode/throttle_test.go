package geocode_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/beehouse-checkout/internal/geocode"
)

func TestThrottleMemoryStore(t *testing.T) {
	th, err := geocode.NewThrottle("2-M", nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, th.Take(ctx))
	require.NoError(t, th.Take(ctx))
	require.ErrorIs(t, th.Take(ctx), geocode.ErrThrottled)
}

func TestThrottleRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	th, err := geocode.NewThrottle("1-M", client)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, th.Take(ctx))
	require.ErrorIs(t, th.Take(ctx), geocode.ErrThrottled)
}

func TestThrottleRejectsBadRate(t *testing.T) {
	_, err := geocode.NewThrottle("fast", nil)
	require.Error(t, err)
}
