package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/beehouse-checkout/internal/obs"
)

// Cached wraps a Reverser with a Redis cache keyed by coordinates rounded to 5 decimals (about 1 m).
type Cached struct {
	Next   Reverser
	Client redis.UniversalClient
	TTL    time.Duration
	Logger zerolog.Logger
}

// CacheKey returns the Redis key for lat/lng.
func CacheKey(lat, lng float64) string {
	return fmt.Sprintf("geocode:reverse:%.5f:%.5f", lat, lng)
}

// Reverse serves from the cache when possible. Cache errors fall through to Next.
func (c *Cached) Reverse(ctx context.Context, lat, lng float64) (Address, error) {
	if c.Client == nil || c.TTL <= 0 {
		return c.Next.Reverse(ctx, lat, lng)
	}
	if err := CheckCoordinates(lat, lng); err != nil {
		return Address{}, err
	}
	key := CacheKey(lat, lng)
	data, err := c.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var addr Address
		if err := json.Unmarshal(data, &addr); err == nil {
			obs.CountGeocode("cache_hit")
			return addr, nil
		}
	case !errors.Is(err, redis.Nil):
		c.Logger.Warn().Err(err).Str("key", key).Msg("geocode_cache_read_failed")
	}

	addr, err := c.Next.Reverse(ctx, lat, lng)
	if err != nil {
		return Address{}, err
	}
	if payload, err := json.Marshal(addr); err == nil {
		if err := c.Client.Set(ctx, key, payload, c.TTL).Err(); err != nil {
			c.Logger.Warn().Err(err).Str("key", key).Msg("geocode_cache_write_failed")
		}
	}
	return addr, nil
}
