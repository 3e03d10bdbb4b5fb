package security

import (
	"net/http"
	"strconv"
	"strings"
)

// PermissionsPolicy keeps browser geolocation available to the checkout page for the home pin.
const PermissionsPolicy = "geolocation=(self), camera=(), microphone=()"

// ContentSecurityPolicy forbids any content in API responses; the page is served elsewhere.
const ContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

// DefaultNoStorePrefixes are the routes whose responses carry customer addresses or
// contact details.
var DefaultNoStorePrefixes = []string{"/api/v1/checkout/", "/api/v1/geocode/"}

// Headers configures the security headers attached to every response.
type Headers struct {
	Enable                bool
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	// NoStorePrefixes overrides DefaultNoStorePrefixes.
	NoStorePrefixes []string
}

func (h Headers) noStore(path string) bool {
	prefixes := h.NoStorePrefixes
	if prefixes == nil {
		prefixes = DefaultNoStorePrefixes
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (h Headers) hsts() string {
	maxAge := h.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = 31536000
	}
	value := "max-age=" + strconv.Itoa(maxAge)
	if h.HSTSIncludeSubdomains {
		value += "; includeSubDomains"
	}
	return value
}

// Middleware attaches the security headers to each response. Checkout and geocode
// responses are also marked uncacheable.
func (h Headers) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.Enable {
			next.ServeHTTP(w, r)
			return
		}
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		headers.Set("Permissions-Policy", PermissionsPolicy)
		headers.Set("Content-Security-Policy", ContentSecurityPolicy)
		if h.noStore(r.URL.Path) {
			headers.Set("Cache-Control", "no-store")
		}
		if h.EnableHSTS && r.TLS != nil {
			headers.Set("Strict-Transport-Security", h.hsts())
		}
		next.ServeHTTP(w, r)
	})
}
