// Package config loads the theme server configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// allowedLogoLayouts lists the logo layout values the templates understand.
var allowedLogoLayouts = map[string]bool{
	"fullwidth": true,
	"inline":    true,
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// ContextHub API
	APIBaseURL string `env:"CTX_API_BASE_URL" envDefault:"https://api.ctxhub.net/api"`
	APIKey     string `env:"CTX_API_KEY"`
	TenantID   string `env:"CTX_TENANT_ID"`

	// Server
	ServerHost string `env:"THEME_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"THEME_SERVER_PORT" envDefault:"3000"`
	Env        string `env:"THEME_ENV" envDefault:"development"`
	LogLevel   string `env:"THEME_LOG_LEVEL" envDefault:"info"`

	// Site identity
	SiteURL    string `env:"CTX_SITE_URL" envDefault:"https://en.kesk.org.tr"`
	LogoLayout string `env:"THEME_LOGO_LAYOUT" envDefault:"fullwidth"`

	// Localization
	DefaultLocale string `env:"CTX_DEFAULT_LOCALE" envDefault:"tr"`

	// Categories
	CategoryCacheTTL   time.Duration `env:"CATEGORIES_CACHE_TTL" envDefault:"5m"`
	CategoryFetchLimit int           `env:"CATEGORIES_FETCH_LIMIT" envDefault:"200"`

	// Menus
	MenuCacheTTL   time.Duration `env:"MENU_CACHE_TTL" envDefault:"5m"`
	MenuID         string        `env:"THEME_MENU_ID"`
	MenuSlug       string        `env:"THEME_MENU_SLUG"`
	FooterMenuID   string        `env:"THEME_FOOTER_MENU_ID"`
	FooterMenuSlug string        `env:"THEME_FOOTER_MENU_SLUG"`

	// Content
	ContentPageSize       int           `env:"CONTENT_PAGE_SIZE" envDefault:"50"`
	ContentLookupMaxPages int           `env:"CONTENT_LOOKUP_MAX_PAGES" envDefault:"10"`

	// Contact form
	ContactFormID       string        `env:"CTX_API_CONTACT_FORM_ID"`
	ContactFormSlug     string        `env:"CTX_API_CONTACT_FORM_SLUG"`
	ContactFormCacheTTL time.Duration `env:"CONTACT_FORM_CACHE_TTL" envDefault:"5m"`

	// Contact abuse control
	ContactRateWindow time.Duration `env:"CONTACT_RATE_LIMIT_WINDOW" envDefault:"1m"`
	ContactRateMax    int           `env:"CONTACT_RATE_LIMIT_MAX" envDefault:"5"`
	ContactCooldown   time.Duration `env:"CONTACT_SUBMISSION_COOLDOWN" envDefault:"1m"`
	ContactBurstRate  float64       `env:"CONTACT_BURST_RATE" envDefault:"1"`
	ContactBurstSize  int           `env:"CONTACT_BURST_SIZE" envDefault:"5"`

	// Cache backend for normalized content records
	RedisURL    string        `env:"THEME_REDIS_URL"`                      // Optional Redis URL for the content cache
	CachePrefix string        `env:"THEME_CACHE_PREFIX" envDefault:"ctx:"` // Redis key prefix
	CacheTTL    time.Duration `env:"THEME_CACHE_TTL" envDefault:"2m"`

	// Background refresh
	RefreshInterval time.Duration `env:"THEME_REFRESH_INTERVAL" envDefault:"5m"`

	// GeoIP
	GeoIPDBPath string `env:"THEME_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// ContactConfigured returns true if the contact form feature can be served.
func (c Config) ContactConfigured() bool {
	return c.ContactFormID != "" || c.ContactFormSlug != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("CTX_API_BASE_URL must not be empty")
	}

	cfg.LogoLayout = strings.ToLower(cfg.LogoLayout)
	if !allowedLogoLayouts[cfg.LogoLayout] {
		cfg.LogoLayout = "fullwidth"
	}

	if cfg.CategoryFetchLimit <= 0 {
		cfg.CategoryFetchLimit = 200
	}
	if cfg.ContentPageSize <= 0 {
		cfg.ContentPageSize = 50
	}
	if cfg.ContentLookupMaxPages <= 0 {
		cfg.ContentLookupMaxPages = 10
	}
	if cfg.ContactRateMax <= 0 {
		cfg.ContactRateMax = 5
	}

	return cfg, nil
}
