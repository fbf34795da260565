// Package service implements the upstream-facing data layer: tenant
// identity, categories, menus, content, and the contact form.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/devburak/contextHub-Theme/internal/api"
	"github.com/devburak/contextHub-Theme/internal/model"
	"github.com/devburak/contextHub-Theme/internal/theme"
)

// TenantService loads tenant identity and branding and derives the
// active theme from them.
type TenantService struct {
	api        *api.Client
	siteURL    string
	logoLayout string
	logger     *slog.Logger

	mu       sync.RWMutex
	tenant   *model.Tenant
	branding *theme.Branding
	theme    theme.Theme
}

// NewTenantService creates a tenant service seeded with the default
// theme so rendering works before the first upstream load.
func NewTenantService(client *api.Client, siteURL, logoLayout string, logger *slog.Logger) *TenantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantService{
		api:        client,
		siteURL:    siteURL,
		logoLayout: logoLayout,
		logger:     logger,
		theme:      theme.FromBranding(nil, siteURL, logoLayout),
	}
}

// Load fetches tenant info and branding and rebuilds the theme. Earlier
// state is kept when the upstream call fails.
func (s *TenantService) Load(ctx context.Context) error {
	var payload struct {
		Tenant   *model.Tenant   `json:"tenant"`
		Branding *theme.Branding `json:"branding"`
	}

	found, err := s.api.GetJSON(ctx, "/tenant/info", nil, false, &payload)
	if err != nil {
		return err
	}
	if !found {
		s.logger.Warn("tenant info response was empty")
		return nil
	}

	s.mu.Lock()
	s.tenant = payload.Tenant
	s.branding = payload.Branding
	s.theme = theme.FromBranding(payload.Branding, s.siteURL, s.logoLayout)
	s.mu.Unlock()

	s.logger.Info("tenant info loaded",
		"tenant", payload.Tenant != nil,
		"branding", payload.Branding != nil,
	)
	return nil
}

// Tenant returns the last loaded tenant, or nil before the first load.
func (s *TenantService) Tenant() *model.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant
}

// TenantID returns the active tenant identifier, or empty string.
func (s *TenantService) TenantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tenant == nil {
		return ""
	}
	return s.tenant.Identifier()
}

// DefaultLocale returns the tenant's default locale, or empty string.
func (s *TenantService) DefaultLocale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tenant == nil {
		return ""
	}
	return s.tenant.DefaultLocale
}

// Branding returns the last loaded branding, or nil.
func (s *TenantService) Branding() *theme.Branding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branding
}

// Theme returns the active theme.
func (s *TenantService) Theme() theme.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}
