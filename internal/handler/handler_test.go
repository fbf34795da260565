package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devburak/contextHub-Theme/internal/api"
	"github.com/devburak/contextHub-Theme/internal/cache"
	"github.com/devburak/contextHub-Theme/internal/config"
	"github.com/devburak/contextHub-Theme/internal/guard"
	"github.com/devburak/contextHub-Theme/internal/i18n"
	"github.com/devburak/contextHub-Theme/internal/middleware"
	"github.com/devburak/contextHub-Theme/internal/render"
	"github.com/devburak/contextHub-Theme/internal/service"
	"github.com/devburak/contextHub-Theme/web"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHandler wires a Handler against a stub upstream API.
func newTestHandler(t *testing.T, upstream http.HandlerFunc) *Handler {
	t.Helper()

	logger := discardLogger()
	if err := i18n.Init(logger); err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := api.New(api.Options{
		BaseURL:  srv.URL,
		APIKey:   "test-key",
		TenantID: "tenant-1",
		Logger:   logger,
	})

	cfg := &config.Config{
		APIBaseURL:      srv.URL,
		SiteURL:         "https://example.org",
		LogoLayout:      "fullwidth",
		ContentPageSize: 12,
	}

	tenants := service.NewTenantService(client, cfg.SiteURL, cfg.LogoLayout, logger)
	categories := service.NewCategoryService(client, service.CategoryOptions{Logger: logger})
	menus := service.NewMenuService(client, service.MenuOptions{Logger: logger})

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	contents := service.NewContentService(client, service.ContentOptions{
		Tenants: tenants,
		Cache:   mem,
		Logger:  logger,
	})

	forms := service.NewFormService(client, service.FormOptions{
		APIKey: "test-key",
		FormID: "form-1",
		Logger: logger,
	})

	g := guard.New(guard.Config{
		Window:       time.Minute,
		MaxPerWindow: 5,
		Cooldown:     time.Minute,
		BurstRate:    1000,
		BurstSize:    1000,
	})
	t.Cleanup(g.Close)

	renderer, err := render.New(web.Templates)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	return New(Options{
		Config:     cfg,
		Logger:     logger,
		Renderer:   renderer,
		Tenants:    tenants,
		Categories: categories,
		Menus:      menus,
		Contents:   contents,
		Forms:      forms,
		Guard:      g,
	})
}

// newTestRouter mounts the handler the way main does.
func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Locale(func() string { return "tr" }))
	r.Get("/", h.Home)
	r.Get("/category/{slug}", h.Category)
	r.Get("/content/{slug}", h.Content)
	r.Get("/search", h.Search)
	r.Get("/contact", h.ContactForm)
	r.Post("/contact", h.ContactSubmit)
	r.Get("/health", h.Health)
	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)
	r.NotFound(h.NotFound)
	return r
}
