package common

import (
	"net"
	"net/http"
)

// ClientIP returns the host part of r.RemoteAddr. The router mounts chi's RealIP
// middleware, which has already replaced RemoteAddr with X-Real-IP or the first
// X-Forwarded-For hop when a proxy sent one.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
