package handler

import (
	"net/http"

	"github.com/devburak/contextHub-Theme/internal/seo"
	"github.com/devburak/contextHub-Theme/internal/util"
)

// sitemapContentLimit caps how many recent articles the sitemap lists.
const sitemapContentLimit = 50

// siteInfo assembles the site-wide SEO settings from the active theme.
func (h *Handler) siteInfo() seo.SiteInfo {
	th := h.tenants.Theme()
	return seo.SiteInfo{
		Name:    th.SiteName,
		URL:     h.cfg.SiteURL,
		LogoURL: th.LogoURL,
	}
}

// Robots handles GET /robots.txt.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	out := seo.GenerateRobots(seo.RobotsConfig{
		SiteURL:     h.cfg.SiteURL,
		DisallowAll: h.cfg.IsDevelopment(),
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// Sitemap handles GET /sitemap.xml, listing the homepage, static pages,
// categories, and the most recent articles.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	b := seo.NewSitemapBuilder(h.cfg.SiteURL)
	b.AddHomepage()
	b.AddStatic("/search")
	if h.forms.Configured() {
		b.AddStatic("/contact")
	}

	for _, category := range h.categories.Categories() {
		b.AddCategory(category.Slug)
	}

	items, err := h.contents.Featured(r.Context(), sitemapContentLimit)
	if err != nil {
		h.logger.Warn("sitemap content listing failed", "error", err)
	}
	for _, item := range items {
		published, _ := util.ParseDate(item.PublishDate)
		b.AddContent(item.Slug, published)
	}

	out, err := b.Build()
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}
