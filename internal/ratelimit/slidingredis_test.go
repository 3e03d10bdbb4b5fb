package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowAllow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := time.Unix(1_700_000_000, 0)
	limiter := SlidingWindow{Client: client, Prefix: "test:", now: func() time.Time { return clock }}
	ctx := context.Background()
	window := 2 * time.Second

	for i := 0; i < 2; i++ {
		clock = clock.Add(time.Millisecond)
		d, err := limiter.Allow(ctx, "geocode", window, 2)
		require.NoError(t, err)
		require.True(t, d.Allowed)
		require.Equal(t, 2-(i+1), d.Remaining)
	}

	clock = clock.Add(time.Millisecond)
	d, err := limiter.Allow(ctx, "geocode", window, 2)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Zero(t, d.Remaining)

	clock = clock.Add(window + time.Second)
	d, err = limiter.Allow(ctx, "geocode", window, 2)
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestSlidingWindowDisabled(t *testing.T) {
	d, err := SlidingWindow{}.Allow(context.Background(), "k", time.Second, 1)
	require.NoError(t, err)
	require.True(t, d.Allowed)
}
