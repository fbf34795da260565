package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/devburak/contextHub-Theme/internal/i18n"
	"github.com/devburak/contextHub-Theme/internal/middleware"
	"github.com/devburak/contextHub-Theme/internal/model"
	"github.com/devburak/contextHub-Theme/internal/seo"
	"github.com/devburak/contextHub-Theme/internal/util"
)

type homeView struct {
	Lead  *model.ContentSummary
	Items []model.ContentSummary
}

type categoryView struct {
	Category   model.Category
	Trail      []model.Category
	Items      []model.ContentSummary
	Pagination *model.Pagination

	basePath string
}

// PageURL builds the link for a pagination entry.
func (v categoryView) PageURL(page int) string {
	return fmt.Sprintf("%s?page=%d", v.basePath, page)
}

type searchView struct {
	Query      string
	Items      []model.ContentSummary
	Pagination *model.Pagination
}

// PageURL builds the link for a pagination entry, keeping the query.
func (v searchView) PageURL(page int) string {
	q := url.Values{}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	q.Set("page", strconv.Itoa(page))
	return "/search?" + q.Encode()
}

type contentView struct {
	Content    *model.ContentDetail
	Trail      []model.Category
	ShareLinks []util.ShareLink
}

// Home handles GET / with the lead story and the featured grid.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	items, err := h.contents.Featured(r.Context(), featuredLimit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	view := homeView{}
	if len(items) > 0 {
		view.Lead = &items[0]
		view.Items = items[1:]
	}

	pd := h.pageData(r, "", view)
	pd.Meta = seo.BuildMeta(nil, h.siteInfo())
	h.render(w, r, http.StatusOK, "home", pd)
}

// Category handles GET /category/{slug} with a paginated article grid.
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	category, ok := h.categories.BySlug(slug)
	if !ok {
		h.NotFound(w, r)
		return
	}

	page := queryPage(r)
	result, err := h.contents.ByCategory(r.Context(), category.ID, page, h.cfg.ContentPageSize)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	view := categoryView{
		Category:   category,
		Trail:      h.categories.Trail(category.Ancestors),
		Items:      result.Items,
		Pagination: result.Pagination,
		basePath:   "/category/" + url.PathEscape(category.Slug),
	}

	pd := h.pageData(r, category.Name, view)
	pd.Meta = seo.BuildMeta(&seo.PageInfo{
		Title:       category.Name,
		Description: category.Description,
		Path:        r.URL.Path,
	}, h.siteInfo())
	h.render(w, r, http.StatusOK, "category", pd)
}

// Content handles GET /content/{slug} with the article detail page.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.contents.Get(r.Context(), "", slug)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if detail == nil {
		h.NotFound(w, r)
		return
	}

	view := contentView{
		Content:    detail,
		Trail:      h.contentTrail(detail),
		ShareLinks: util.ShareLinks(detail.Title, h.contentURL(detail.Slug)),
	}

	info := &seo.PageInfo{
		Title:       detail.Title,
		Description: detail.Summary,
		Path:        r.URL.Path,
		IsArticle:   true,
	}
	if detail.HeroImage != nil {
		info.Image = detail.HeroImage.URL
	}

	pd := h.pageData(r, detail.Title, view)
	pd.Meta = seo.BuildMeta(info, h.siteInfo())
	h.render(w, r, http.StatusOK, "content", pd)
}

// Search handles GET /search with paginated full-text results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	view := searchView{Query: query}
	if query != "" {
		result, err := h.contents.Search(r.Context(), query, queryPage(r), h.cfg.ContentPageSize)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		view.Items = result.Items
		view.Pagination = result.Pagination
	}

	lang := middleware.LocaleFrom(r.Context())
	title := i18n.T(lang, "search.title")

	pd := h.pageData(r, title, view)
	pd.Meta = seo.BuildMeta(&seo.PageInfo{Title: title, Path: "/search"}, h.siteInfo())
	h.render(w, r, http.StatusOK, "search", pd)
}

func (h *Handler) contentTrail(detail *model.ContentDetail) []model.Category {
	if len(detail.CategoryIDs) == 0 {
		return nil
	}
	category, ok := h.categories.ByID(detail.CategoryIDs[0])
	if !ok {
		return nil
	}
	return h.categories.Trail(append(append([]string{}, category.Ancestors...), category.ID))
}

func (h *Handler) contentURL(slug string) string {
	return strings.TrimRight(h.cfg.SiteURL, "/") + "/content/" + url.PathEscape(slug)
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
