package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/beehouse-checkout/internal/account"
	"github.com/noah-isme/beehouse-checkout/internal/cart"
	"github.com/noah-isme/beehouse-checkout/internal/checkout"
	"github.com/noah-isme/beehouse-checkout/internal/common"
	"github.com/noah-isme/beehouse-checkout/internal/geocode"
	"github.com/noah-isme/beehouse-checkout/internal/health"
	"github.com/noah-isme/beehouse-checkout/internal/obs"
	"github.com/noah-isme/beehouse-checkout/internal/ratelimit"
	"github.com/noah-isme/beehouse-checkout/internal/security"
	"github.com/noah-isme/beehouse-checkout/internal/shipping"
	"github.com/noah-isme/beehouse-checkout/internal/stopdesk"
)

// NewRouter mounts every checkout endpoint under /api/v1 plus health and metrics.
func NewRouter(d *Dependencies) http.Handler {
	cfg := d.Config

	shippingHandler := &shipping.Handler{Rates: d.Rates}
	deskHandler := &stopdesk.Handler{Directory: d.Desks}
	geocodeHandler := &geocode.Handler{Reverser: d.Geocoder}
	checkoutHandler := &checkout.Handler{Svc: d.CheckoutService()}
	cartHandler := &cart.Handler{Svc: &cart.Service{Rates: d.Rates}}
	accountHandler := account.Handler{}

	idem := common.Idem{TTL: cfg.IdempotencyTTL}
	var limiter ratelimit.Handler
	probes := []health.Probe{
		health.NonEmptyProbe("rates", d.Rates.Len),
		health.NonEmptyProbe("stopdesks", func() int { return len(d.Desks.All()) }),
	}
	if d.Redis != nil {
		idem.R = d.Redis
		limiter = ratelimit.Handler{
			Store:  ratelimit.SlidingWindow{Client: d.Redis, Prefix: "rl"},
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		}
		probes = append(probes, health.RedisProbe(d.Redis))
	}
	healthHandler := health.Handler{Probes: probes}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.Headers{Enable: cfg.SecurityHeadersEnabled, EnableHSTS: cfg.SecurityHSTSEnabled}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.CORSAllowedOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", common.IdempotencyHeader},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(security.BodyLimit{Max: cfg.HTTPBodyLimitBytes}.Middleware)

	if d.HTTPMetrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/shipping", func(s chi.Router) {
			s.Get("/rates", shippingHandler.List)
			s.Get("/rates/{region}", shippingHandler.Get)
			s.Post("/quote", shippingHandler.Quote)
		})

		v.Get("/stop-desks", deskHandler.List)
		v.Get("/stop-desks/{id}", deskHandler.Get)

		v.With(limiter.Middleware).Get("/geocode/reverse", geocodeHandler.Reverse)

		v.Route("/checkout", func(c chi.Router) {
			c.Post("/session", checkoutHandler.Open)
			c.Post("/region", checkoutHandler.SetRegion)
			c.Post("/delivery-mode", checkoutHandler.SetMode)
			c.Post("/pickup-point", checkoutHandler.SelectPickupPoint)
			c.With(limiter.Middleware).Post("/location", checkoutHandler.PinLocation)
			c.Post("/validate", checkoutHandler.Validate)
			c.With(limiter.Middleware, idem.Middleware).Post("/submit", checkoutHandler.Submit)
		})

		v.Post("/accounts/validate", accountHandler.Validate)
		v.Post("/cart/summary", cartHandler.Summary)
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
