package obs

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route classes group checkout endpoints on spans, logs and request metrics.
const (
	ClassQuote     = "quote"
	ClassPin       = "pin"
	ClassSubmit    = "submit"
	ClassCheckout  = "checkout"
	ClassReference = "reference"
	ClassOps       = "ops"
	ClassOther     = "other"
)

var routeClasses = map[string]string{
	"/api/v1/shipping/quote":          ClassQuote,
	"/api/v1/cart/summary":            ClassQuote,
	"/api/v1/checkout/location":       ClassPin,
	"/api/v1/geocode/reverse":         ClassPin,
	"/api/v1/checkout/submit":         ClassSubmit,
	"/api/v1/shipping/rates":          ClassReference,
	"/api/v1/shipping/rates/{region}": ClassReference,
	"/api/v1/stop-desks":              ClassReference,
	"/api/v1/stop-desks/{id}":         ClassReference,
}

// RoutePattern returns the chi pattern matched for r. Middleware mounted with Use
// sees the full pattern only after the next handler has run.
func RoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}

// RouteClass maps a route pattern to one of the Class constants.
func RouteClass(pattern string) string {
	if class, ok := routeClasses[pattern]; ok {
		return class
	}
	switch {
	case strings.HasPrefix(pattern, "/api/v1/checkout/"):
		return ClassCheckout
	case strings.HasPrefix(pattern, "/health/"), pattern == "/metrics":
		return ClassOps
	default:
		return ClassOther
	}
}

func routeLabel(r *http.Request) string {
	if pattern := RoutePattern(r); pattern != "" {
		return pattern
	}
	return "unmatched"
}
