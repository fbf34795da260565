package service

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/devburak/contextHub-Theme/internal/api"
	"github.com/devburak/contextHub-Theme/internal/cache"
	"github.com/devburak/contextHub-Theme/internal/model"
	"github.com/devburak/contextHub-Theme/internal/util"
)

const (
	summaryMaxLength = 220
	detailMaxLength  = 320
)

// ContentService lists and resolves published content. Slugs are mapped
// to ids through an index that grows with every list response, so most
// detail lookups avoid a paginated scan.
type ContentService struct {
	api            *api.Client
	tenants        *TenantService
	details        *cache.TypedCache[model.ContentDetail]
	pageSize       int
	maxLookupPages int
	sanitizer      *bluemonday.Policy
	logger         *slog.Logger

	mu        sync.RWMutex
	slugIndex map[string]string
}

// ContentOptions configures a ContentService.
type ContentOptions struct {
	Tenants *TenantService
	// Cache backs the detail read-through cache. Required.
	Cache          cache.Cacher
	DetailTTL      time.Duration
	PageSize       int
	MaxLookupPages int
	Logger         *slog.Logger
}

// NewContentService creates a content service.
func NewContentService(client *api.Client, opts ContentOptions) *ContentService {
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.MaxLookupPages <= 0 {
		opts.MaxLookupPages = 10
	}
	if opts.DetailTTL <= 0 {
		opts.DetailTTL = 2 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &ContentService{
		api:            client,
		tenants:        opts.Tenants,
		details:        cache.NewTypedCache[model.ContentDetail](opts.Cache, opts.DetailTTL),
		pageSize:       opts.PageSize,
		maxLookupPages: opts.MaxLookupPages,
		sanitizer:      bluemonday.UGCPolicy(),
		logger:         opts.Logger,
		slugIndex:      make(map[string]string),
	}
}

type rawVariant struct {
	Name   string       `json:"name"`
	URL    string       `json:"url"`
	Width  model.Number `json:"width"`
	Height model.Number `json:"height"`
}

type rawMedia struct {
	URL      string       `json:"url"`
	Width    model.Number `json:"width"`
	Height   model.Number `json:"height"`
	AltText  string       `json:"altText"`
	Caption  string       `json:"caption"`
	Variants []rawVariant `json:"variants"`
}

type rawContent struct {
	LegacyID        model.ID   `json:"_id"`
	ID              model.ID   `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Summary         string     `json:"summary"`
	Excerpt         string     `json:"excerpt"`
	PublishAt       string     `json:"publishAt"`
	PublishedAt     string     `json:"publishedAt"`
	HTML            string     `json:"html"`
	FeaturedMediaID *rawMedia  `json:"featuredMediaId"`
	FeaturedMedia   *rawMedia  `json:"featuredMedia"`
	Categories      []model.ID `json:"categories"`
}

type rawPagination struct {
	Page  model.Number `json:"page"`
	Pages model.Number `json:"pages"`
	Total model.Number `json:"total"`
	Limit model.Number `json:"limit"`
}

type contentEnvelope struct {
	Items      []rawContent   `json:"items"`
	Contents   []rawContent   `json:"contents"`
	Data       []rawContent   `json:"data"`
	Results    []rawContent   `json:"results"`
	Pagination *rawPagination `json:"pagination"`
}

func (e contentEnvelope) list() []rawContent {
	switch {
	case len(e.Items) > 0:
		return e.Items
	case len(e.Contents) > 0:
		return e.Contents
	case len(e.Data) > 0:
		return e.Data
	default:
		return e.Results
	}
}

func (e contentEnvelope) pagination() *model.Pagination {
	if e.Pagination == nil {
		return nil
	}
	return &model.Pagination{
		Page:  e.Pagination.Page.Int(),
		Pages: e.Pagination.Pages.Int(),
		Total: e.Pagination.Total.Int(),
		Limit: e.Pagination.Limit.Int(),
	}
}

// pickMedia resolves a media document to a renderable image, preferring
// the named variant, then large, then medium, then the first variant,
// then the flat URL.
func pickMedia(media *rawMedia, prefer string) *model.Image {
	if media == nil {
		return nil
	}

	alt := media.AltText
	if alt == "" {
		alt = media.Caption
	}

	if len(media.Variants) > 0 {
		var chosen *rawVariant
		for i := range media.Variants {
			if prefer != "" && media.Variants[i].Name == prefer {
				chosen = &media.Variants[i]
				break
			}
		}
		if chosen == nil {
			for _, name := range []string{"large", "medium"} {
				for i := range media.Variants {
					if media.Variants[i].Name == name {
						chosen = &media.Variants[i]
						break
					}
				}
				if chosen != nil {
					break
				}
			}
		}
		if chosen == nil {
			chosen = &media.Variants[0]
		}
		if chosen.URL != "" {
			return &model.Image{
				URL:    chosen.URL,
				Width:  chosen.Width.Int(),
				Height: chosen.Height.Int(),
				Alt:    alt,
			}
		}
	}

	if media.URL != "" {
		return &model.Image{
			URL:    media.URL,
			Width:  media.Width.Int(),
			Height: media.Height.Int(),
			Alt:    alt,
		}
	}
	return nil
}

func (raw rawContent) media() *rawMedia {
	if raw.FeaturedMediaID != nil {
		return raw.FeaturedMediaID
	}
	return raw.FeaturedMedia
}

func (raw rawContent) publishDate() string {
	if raw.PublishAt != "" {
		return raw.PublishAt
	}
	return raw.PublishedAt
}

func formatPublishDate(value string) string {
	t, ok := util.ParseDate(value)
	if !ok {
		return ""
	}
	return util.FormatDate(t)
}

func (s *ContentService) rememberSlug(slug, id string) {
	if slug == "" || id == "" {
		return
	}
	s.mu.Lock()
	s.slugIndex[slug] = id
	s.mu.Unlock()
}

func (s *ContentService) slugToID(slug string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.slugIndex[slug]
	return id, ok
}

// normalizeSummary shapes a list item. The lead item prefers the large
// image variant, the rest medium.
func (s *ContentService) normalizeSummary(raw rawContent, isLead bool) model.ContentSummary {
	id := model.FirstID(raw.LegacyID, raw.ID).String()
	s.rememberSlug(raw.Slug, id)

	prefer := "medium"
	if isLead {
		prefer = "large"
	}

	summarySource := raw.Summary
	if summarySource == "" {
		summarySource = raw.Excerpt
	}
	if summarySource == "" {
		summarySource = raw.Title
	}

	publishDate := raw.publishDate()

	return model.ContentSummary{
		ID:                   id,
		Title:                raw.Title,
		Slug:                 raw.Slug,
		Summary:              util.Summarize(summarySource, summaryMaxLength),
		PublishDate:          publishDate,
		FormattedPublishDate: formatPublishDate(publishDate),
		HeroImage:            pickMedia(raw.media(), prefer),
		CategoryIDs:          model.IDStrings(raw.Categories),
	}
}

func (s *ContentService) normalizeDetail(raw rawContent) model.ContentDetail {
	id := model.FirstID(raw.LegacyID, raw.ID).String()
	s.rememberSlug(raw.Slug, id)

	summarySource := raw.Summary
	if summarySource == "" {
		summarySource = raw.Title
	}

	publishDate := raw.publishDate()

	return model.ContentDetail{
		ID:                   id,
		Title:                raw.Title,
		Slug:                 raw.Slug,
		Summary:              util.Summarize(summarySource, detailMaxLength),
		PublishDate:          publishDate,
		FormattedPublishDate: formatPublishDate(publishDate),
		HeroImage:            pickMedia(raw.media(), ""),
		Body:                 s.sanitizer.Sanitize(raw.HTML),
		CategoryIDs:          model.IDStrings(raw.Categories),
	}
}

func (s *ContentService) normalizeCollection(envelope contentEnvelope, leadFirst bool) []model.ContentSummary {
	raw := envelope.list()
	out := make([]model.ContentSummary, 0, len(raw))
	for i, item := range raw {
		out = append(out, s.normalizeSummary(item, leadFirst && i == 0))
	}
	return out
}

// Featured returns the newest published content for the home page. The
// first item is shaped as the lead story.
func (s *ContentService) Featured(ctx context.Context, limit int) ([]model.ContentSummary, error) {
	if limit <= 0 {
		limit = 4
	}

	query := url.Values{}
	if s.tenants != nil {
		query.Set("tenant", s.tenants.TenantID())
	}
	query.Set("status", "published")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("page", "1")

	var envelope contentEnvelope
	if _, err := s.api.GetJSON(ctx, "/contents", query, false, &envelope); err != nil {
		return nil, err
	}

	return s.normalizeCollection(envelope, true), nil
}

// ByCategory lists published content in a category.
func (s *ContentService) ByCategory(ctx context.Context, categoryID string, page, limit int) (model.ContentPage, error) {
	if categoryID == "" {
		return model.ContentPage{}, nil
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 12
	}

	query := url.Values{}
	query.Set("status", "published")
	query.Set("category", categoryID)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var envelope contentEnvelope
	if _, err := s.api.GetJSON(ctx, "/contents", query, false, &envelope); err != nil {
		return model.ContentPage{}, err
	}

	return model.ContentPage{
		Items:      s.normalizeCollection(envelope, false),
		Pagination: envelope.pagination(),
	}, nil
}

// Search lists published content matching a query. An empty query
// returns an empty page without an upstream call.
func (s *ContentService) Search(ctx context.Context, query string, page, limit int) (model.ContentPage, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return model.ContentPage{}, nil
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 12
	}

	params := url.Values{}
	params.Set("status", "published")
	params.Set("search", term)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var envelope contentEnvelope
	if _, err := s.api.GetJSON(ctx, "/contents", params, false, &envelope); err != nil {
		return model.ContentPage{}, err
	}

	return model.ContentPage{
		Items:      s.normalizeCollection(envelope, false),
		Pagination: envelope.pagination(),
	}, nil
}

// detailEnvelope covers both wrapped and bare detail responses.
type detailEnvelope struct {
	Content *rawContent `json:"content"`
	rawContent
}

// byID fetches a content detail, bypassing the cache.
func (s *ContentService) byID(ctx context.Context, id string) (*model.ContentDetail, error) {
	if id == "" {
		return nil, nil
	}

	var envelope detailEnvelope
	found, err := s.api.GetJSON(ctx, "/contents/"+id, nil, true, &envelope)
	if err != nil || !found {
		return nil, err
	}

	raw := envelope.rawContent
	if envelope.Content != nil {
		raw = *envelope.Content
	}

	detail := s.normalizeDetail(raw)
	return &detail, nil
}

// findIDBySlug resolves a slug to a content id, scanning published list
// pages when the slug index has no entry. The scan is bounded.
func (s *ContentService) findIDBySlug(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", nil
	}
	if id, ok := s.slugToID(slug); ok {
		return id, nil
	}

	for page := 1; page <= s.maxLookupPages; page++ {
		query := url.Values{}
		query.Set("status", "published")
		query.Set("page", strconv.Itoa(page))
		query.Set("limit", strconv.Itoa(s.pageSize))

		var envelope contentEnvelope
		if _, err := s.api.GetJSON(ctx, "/contents", query, false, &envelope); err != nil {
			return "", err
		}

		items := s.normalizeCollection(envelope, false)
		for _, item := range items {
			if item.Slug == slug {
				return item.ID, nil
			}
		}

		pagination := envelope.pagination()
		if pagination == nil || pagination.Pages == 0 || page >= pagination.Pages {
			break
		}
	}

	return "", nil
}

// Get resolves a content detail by id or slug. Details are served from
// a short-lived read-through cache. A nil detail with nil error means
// the content does not exist.
func (s *ContentService) Get(ctx context.Context, id, slug string) (*model.ContentDetail, error) {
	targetID := id
	if targetID == "" && slug != "" {
		resolved, err := s.findIDBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		targetID = resolved
	}
	if targetID == "" {
		return nil, nil
	}

	cacheKey := "content:detail:" + targetID
	if cached, ok := s.details.Get(ctx, cacheKey); ok {
		return cached, nil
	}

	detail, err := s.byID(ctx, targetID)
	if err != nil || detail == nil {
		return nil, err
	}

	if err := s.details.Set(ctx, cacheKey, detail); err != nil {
		s.logger.Debug("content detail cache write failed", "id", targetID, "error", err)
	}
	return detail, nil
}
