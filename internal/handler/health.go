package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/devburak/contextHub-Theme/internal/version"
)

// HealthStatus is the JSON payload for GET /health.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check is a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health handles GET /health requests.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"tenant": h.checkTenant(),
		"geoip":  h.checkGeoIP(),
	}

	overall := "healthy"
	status := http.StatusOK
	for _, check := range checks {
		if check.Status == "unhealthy" {
			overall = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Version,
		Checks:    checks,
	})
}

// checkTenant reports whether tenant info has been loaded from the API.
func (h *Handler) checkTenant() Check {
	if h.tenants.Tenant() == nil {
		return Check{Status: "unhealthy", Message: "tenant info not loaded"}
	}
	return Check{Status: "healthy"}
}

func (h *Handler) checkGeoIP() Check {
	if h.geo == nil || !h.geo.IsEnabled() {
		return Check{Status: "disabled"}
	}
	return Check{Status: "healthy"}
}
