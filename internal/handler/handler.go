// Package handler provides HTTP handlers for the public site.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/devburak/contextHub-Theme/internal/config"
	"github.com/devburak/contextHub-Theme/internal/geoip"
	"github.com/devburak/contextHub-Theme/internal/guard"
	"github.com/devburak/contextHub-Theme/internal/middleware"
	"github.com/devburak/contextHub-Theme/internal/render"
	"github.com/devburak/contextHub-Theme/internal/service"
)

// featuredLimit is how many items the homepage shows.
const featuredLimit = 9

// Handler serves the public site pages.
type Handler struct {
	cfg        *config.Config
	logger     *slog.Logger
	renderer   *render.Renderer
	tenants    *service.TenantService
	categories *service.CategoryService
	menus      *service.MenuService
	contents   *service.ContentService
	forms      *service.FormService
	guard      *guard.Guard
	geo        *geoip.Lookup
	startTime  time.Time
}

// Options bundles the dependencies for New.
type Options struct {
	Config     *config.Config
	Logger     *slog.Logger
	Renderer   *render.Renderer
	Tenants    *service.TenantService
	Categories *service.CategoryService
	Menus      *service.MenuService
	Contents   *service.ContentService
	Forms      *service.FormService
	Guard      *guard.Guard
	GeoIP      *geoip.Lookup
}

// New creates a Handler.
func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:        opts.Config,
		logger:     logger,
		renderer:   opts.Renderer,
		tenants:    opts.Tenants,
		categories: opts.Categories,
		menus:      opts.Menus,
		contents:   opts.Contents,
		forms:      opts.Forms,
		guard:      opts.Guard,
		geo:        opts.GeoIP,
		startTime:  time.Now(),
	}
}

// pageData assembles the shared template envelope for a request.
func (h *Handler) pageData(r *http.Request, title string, data any) render.PageData {
	return render.PageData{
		Title:      title,
		Lang:       middleware.LocaleFrom(r.Context()),
		Path:       r.URL.Path,
		Theme:      h.tenants.Theme(),
		Menu:       h.menus.Menu(service.MenuPrimary),
		FooterMenu: h.menus.Menu(service.MenuFooter),
		Categories: h.categories.TopLevel(),
		Data:       data,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, pd render.PageData) {
	if err := h.renderer.Render(w, status, name, pd); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not-found", h.pageData(r, "", nil))
}

// serverError renders the 500 page.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	h.render(w, r, http.StatusInternalServerError, "error", h.pageData(r, "", nil))
}
