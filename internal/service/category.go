package service

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/devburak/contextHub-Theme/internal/api"
	"github.com/devburak/contextHub-Theme/internal/model"
)

// CategoryService caches the flat category list and indexes it by slug
// and id. Stale data is served when a refresh fails.
type CategoryService struct {
	api    *api.Client
	ttl    time.Duration
	limit  int
	now    func() time.Time
	logger *slog.Logger

	mu         sync.RWMutex
	categories []model.Category
	bySlug     map[string]int
	byID       map[string]int
	fetchedAt  time.Time
}

// CategoryOptions configures a CategoryService.
type CategoryOptions struct {
	TTL        time.Duration
	FetchLimit int
	Now        func() time.Time
	Logger     *slog.Logger
}

// NewCategoryService creates a category service.
func NewCategoryService(client *api.Client, opts CategoryOptions) *CategoryService {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = 200
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &CategoryService{
		api:    client,
		ttl:    opts.TTL,
		limit:  opts.FetchLimit,
		now:    opts.Now,
		logger: opts.Logger,
		bySlug: make(map[string]int),
		byID:   make(map[string]int),
	}
}

type rawCategory struct {
	LegacyID    model.ID     `json:"_id"`
	ID          model.ID     `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	ParentID    model.ID     `json:"parentId"`
	Ancestors   []model.ID   `json:"ancestors"`
	Position    model.Number `json:"position"`
}

type categoryEnvelope struct {
	Categories []rawCategory `json:"categories"`
	Items      []rawCategory `json:"items"`
}

func normalizeCategory(raw rawCategory) model.Category {
	return model.Category{
		ID:          model.FirstID(raw.LegacyID, raw.ID).String(),
		Name:        raw.Name,
		Slug:        raw.Slug,
		Description: raw.Description,
		ParentID:    raw.ParentID.String(),
		Ancestors:   model.IDStrings(raw.Ancestors),
		Position:    raw.Position.Int(),
	}
}

// Ensure returns the cached category list, refreshing it when the TTL
// has passed or force is set. When a refresh fails and a previous list
// exists, the stale list is returned.
func (s *CategoryService) Ensure(ctx context.Context, force bool) ([]model.Category, error) {
	s.mu.RLock()
	fresh := !force && len(s.categories) > 0 && s.now().Sub(s.fetchedAt) < s.ttl
	cached := s.categories
	s.mu.RUnlock()

	if fresh {
		return cached, nil
	}

	list, err := s.fetch(ctx)
	if err != nil {
		if len(cached) > 0 {
			s.logger.Warn("category refresh failed, serving stale list", "error", err)
			return cached, nil
		}
		return nil, err
	}
	return list, nil
}

func (s *CategoryService) fetch(ctx context.Context) ([]model.Category, error) {
	query := url.Values{}
	query.Set("flat", "true")
	query.Set("limit", strconv.Itoa(s.limit))

	var envelope categoryEnvelope
	if _, err := s.api.GetJSON(ctx, "/categories", query, false, &envelope); err != nil {
		return nil, err
	}

	raw := envelope.Categories
	if len(raw) == 0 {
		raw = envelope.Items
	}

	list := make([]model.Category, 0, len(raw))
	for _, item := range raw {
		list = append(list, normalizeCategory(item))
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Position != list[j].Position {
			return list[i].Position < list[j].Position
		}
		return strings.Compare(list[i].Name, list[j].Name) < 0
	})

	bySlug := make(map[string]int, len(list))
	byID := make(map[string]int, len(list))
	for i, category := range list {
		if category.Slug != "" {
			bySlug[category.Slug] = i
		}
		if category.ID != "" {
			byID[category.ID] = i
		}
	}

	s.mu.Lock()
	s.categories = list
	s.bySlug = bySlug
	s.byID = byID
	s.fetchedAt = s.now()
	s.mu.Unlock()

	s.logger.Debug("categories refreshed", "count", len(list))
	return list, nil
}

// Categories returns the cached list without refreshing.
func (s *CategoryService) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// TopLevel returns cached categories without a parent.
func (s *CategoryService) TopLevel() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Category
	for _, category := range s.categories {
		if category.IsTopLevel() {
			out = append(out, category)
		}
	}
	return out
}

// BySlug looks up a cached category by slug.
func (s *CategoryService) BySlug(slug string) (model.Category, bool) {
	if slug == "" {
		return model.Category{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.bySlug[slug]
	if !ok {
		return model.Category{}, false
	}
	return s.categories[i], true
}

// ByID looks up a cached category by id.
func (s *CategoryService) ByID(id string) (model.Category, bool) {
	if id == "" {
		return model.Category{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return model.Category{}, false
	}
	return s.categories[i], true
}

// Trail maps category ids to known categories, skipping unknown ids.
func (s *CategoryService) Trail(ids []string) []model.Category {
	var out []model.Category
	for _, id := range ids {
		if category, ok := s.ByID(id); ok {
			out = append(out, category)
		}
	}
	return out
}
