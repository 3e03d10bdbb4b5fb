package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/beehouse-checkout/internal/checkout"
	"github.com/noah-isme/beehouse-checkout/internal/config"
	"github.com/noah-isme/beehouse-checkout/internal/geocode"
	"github.com/noah-isme/beehouse-checkout/internal/obs"
	"github.com/noah-isme/beehouse-checkout/internal/order"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
	"github.com/noah-isme/beehouse-checkout/internal/stopdesk"
)

// Dependencies holds everything the router needs. Redis is optional; a nil
// interface disables the geocode cache, the inbound limiter and idempotency.
type Dependencies struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Redis       redis.UniversalClient
	Rates       *shipping.RateTable
	Desks       *stopdesk.Directory
	Geocoder    geocode.Reverser
	Submitter   order.Submitter
	HTTPMetrics *obs.HTTPMetrics
	Tracing     bool
}

// Catalog bundles the reference data a checkout session reads.
func (d *Dependencies) Catalog() checkout.Catalog {
	return checkout.Catalog{
		Rates:  d.Rates,
		Desks:  d.Desks,
		Policy: checkout.Policy{AddressRequiredForStopDesk: d.Config.AddressRequiredForStopDesk},
	}
}

// CheckoutService wires the checkout flow to the geocoder and the order endpoint.
func (d *Dependencies) CheckoutService() *checkout.Service {
	return &checkout.Service{
		Catalog:   d.Catalog(),
		Geocoder:  d.Geocoder,
		Submitter: d.Submitter,
		NewID:     uuid.NewString,
	}
}

// Build loads reference data and constructs the outbound clients described by cfg.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg, Logger: logger, Tracing: cfg.Obs.TracingEnabled}
	cleanup := func() {}

	rates, err := shipping.LoadRates(cfg.ShippingRatesFile)
	if err != nil {
		return nil, cleanup, fmt.Errorf("load shipping rates: %w", err)
	}
	deps.Rates = rates

	desks, err := stopdesk.LoadDirectory(cfg.StopDesksFile)
	if err != nil {
		return nil, cleanup, fmt.Errorf("load stop desks: %w", err)
	}
	deps.Desks = desks

	if cfg.RedisURL != "" {
		client, err := NewRedis(ctx, cfg.RedisURL, cfg.Obs.MetricsEnabled, logger)
		if err != nil {
			return nil, cleanup, err
		}
		deps.Redis = client
		cleanup = func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.Obs.TracingEnabled {
		transport = obs.Transport(transport)
	}

	throttle, err := geocode.NewThrottle(cfg.GeocodeRate, deps.Redis)
	if err != nil {
		return nil, cleanup, fmt.Errorf("geocode throttle: %w", err)
	}
	client := geocode.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeUserAgent, cfg.GeocodeTimeout, transport, throttle, logger)
	if deps.Redis != nil {
		deps.Geocoder = &geocode.Cached{Next: client, Client: deps.Redis, TTL: cfg.GeocodeCacheTTL, Logger: logger}
	} else {
		deps.Geocoder = client
	}

	submitter, err := order.NewFormSubmitter(cfg.OrderEndpointURL, cfg.OrderTimeout, transport)
	if err != nil {
		return nil, cleanup, fmt.Errorf("order submitter: %w", err)
	}
	deps.Submitter = submitter

	return deps, cleanup, nil
}

// NewRedis connects to url with tracing and, optionally, metrics instrumentation.
func NewRedis(ctx context.Context, url string, metrics bool, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
