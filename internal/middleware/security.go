package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS and relaxes CSP for local work.
	IsDevelopment bool

	// ContentSecurityPolicy overrides the default policy when set.
	ContentSecurityPolicy string

	// HSTSMaxAge is the max-age for Strict-Transport-Security in
	// seconds. Zero disables HSTS.
	HSTSMaxAge int

	// FrameOptions controls X-Frame-Options. Empty disables it.
	FrameOptions string

	// ReferrerPolicy controls Referrer-Policy.
	ReferrerPolicy string
}

// DefaultSecurityHeadersConfig returns a SecurityHeadersConfig with
// sensible defaults for a public content site.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	cfg := SecurityHeadersConfig{
		IsDevelopment:  isDev,
		HSTSMaxAge:     31536000,
		FrameOptions:   "SAMEORIGIN",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}

	directives := []string{
		"default-src 'self'",
		"img-src 'self' https: data:",
		"style-src 'self' 'unsafe-inline'",
		"script-src 'self'",
		"form-action 'self'",
	}
	if isDev {
		directives = append(directives, "connect-src 'self' ws: wss:")
	}
	cfg.ContentSecurityPolicy = strings.Join(directives, "; ")

	return cfg
}

// SecurityHeaders sets standard security response headers.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 && r.TLS != nil {
				h.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(cfg.HSTSMaxAge))
			}

			next.ServeHTTP(w, r)
		})
	}
}
