package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// ErrThrottled is returned when the outbound request budget is spent.
var ErrThrottled = errors.New("geocode: outbound rate exceeded")

const throttleKey = "nominatim"

// Throttle caps outbound lookups, shared across instances when backed by Redis.
type Throttle struct {
	limiter *limiter.Limiter
}

// NewThrottle parses a formatted rate such as "1-S". A nil client keeps counters in memory.
func NewThrottle(rate string, client redis.UniversalClient) (*Throttle, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("geocode rate %q: %w", rate, err)
	}
	var store limiter.Store
	if client == nil {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          "geocode",
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	} else {
		store, err = limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix:   "geocode:throttle",
			MaxRetry: limiter.DefaultMaxRetry,
		})
		if err != nil {
			return nil, fmt.Errorf("geocode throttle store: %w", err)
		}
	}
	return &Throttle{limiter: limiter.New(store, r)}, nil
}

// Take consumes one request from the budget.
func (t *Throttle) Take(ctx context.Context) error {
	lc, err := t.limiter.Get(ctx, throttleKey)
	if err != nil {
		return fmt.Errorf("geocode throttle: %w", err)
	}
	if lc.Reached {
		return ErrThrottled
	}
	return nil
}
