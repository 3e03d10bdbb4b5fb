package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/beehouse-checkout/internal/common"
)

// Store is satisfied by SlidingWindow.
type Store interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (Decision, error)
}

// Handler throttles requests per key. Store failures let the request through.
type Handler struct {
	Store  Store
	Window time.Duration
	Max    int
	Key    func(*http.Request) string
}

// ClientRouteKey keys requests by client address and matched route pattern.
func ClientRouteKey(r *http.Request) string {
	route := r.URL.Path
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			route = pattern
		}
	}
	return common.ClientIP(r) + "|" + r.Method + " " + route
}

// Middleware wraps next with the limiter.
func (h Handler) Middleware(next http.Handler) http.Handler {
	keyFn := h.Key
	if keyFn == nil {
		keyFn = ClientRouteKey
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Store == nil {
			next.ServeHTTP(w, r)
			return
		}
		d, err := h.Store.Allow(r.Context(), keyFn(r), h.Window, h.Max)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("ratelimit_store_failed")
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		if !d.Allowed {
			retry := int(time.Until(d.ResetAt).Seconds())
			if retry < 1 {
				retry = 1
			}
			headers.Set("Retry-After", strconv.Itoa(retry))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
