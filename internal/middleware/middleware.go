// Package middleware provides HTTP middleware for locale detection,
// site context loading, and request hardening.
package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ContextKey is the type for context keys used by this package.
type ContextKey string

// ClientIP extracts the client IP address, preferring reverse proxy
// headers over the socket address.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	// X-Forwarded-For can contain multiple IPs; take the first one
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.Index(ip, ","); idx >= 0 {
			ip = ip[:idx]
		}
		return strings.TrimSpace(ip)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
