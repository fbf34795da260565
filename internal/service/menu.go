package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/devburak/contextHub-Theme/internal/api"
	"github.com/devburak/contextHub-Theme/internal/model"
)

// Menu cache keys used by the site layout.
const (
	MenuPrimary = "primary"
	MenuFooter  = "footer"
)

// MenuRef identifies a menu by id, slug, or both. The id endpoint is
// tried first, the public slug endpoint second.
type MenuRef struct {
	ID   string
	Slug string
}

// IsZero reports whether the reference names no menu.
func (r MenuRef) IsZero() bool { return r.ID == "" && r.Slug == "" }

type menuEntry struct {
	menu      *model.Menu
	fetchedAt time.Time
}

// MenuService caches navigation menus per cache key. Stale menus are
// served when a refresh fails.
type MenuService struct {
	api    *api.Client
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	refs map[string]MenuRef

	mu      sync.Mutex
	entries map[string]*menuEntry
}

// MenuOptions configures a MenuService.
type MenuOptions struct {
	TTL    time.Duration
	Now    func() time.Time
	Logger *slog.Logger
	// Refs maps cache keys (MenuPrimary, MenuFooter) to configured menus.
	Refs map[string]MenuRef
}

// NewMenuService creates a menu service.
func NewMenuService(client *api.Client, opts MenuOptions) *MenuService {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &MenuService{
		api:     client,
		ttl:     opts.TTL,
		now:     opts.Now,
		logger:  opts.Logger,
		refs:    opts.Refs,
		entries: make(map[string]*menuEntry),
	}
}

type rawMenuItem struct {
	LegacyID   model.ID     `json:"_id"`
	ID         model.ID     `json:"id"`
	Title      string       `json:"title"`
	ParentID   model.ID     `json:"parentId"`
	URL        string       `json:"url"`
	Type       string       `json:"type"`
	Target     string       `json:"target"`
	CSSClasses string       `json:"cssClasses"`
	Order      model.Number `json:"order"`
	Reference  struct {
		URL string `json:"url"`
	} `json:"reference"`
	Children []rawMenuItem `json:"children"`
}

func (item rawMenuItem) identifier() string {
	return model.FirstID(item.LegacyID, item.ID).String()
}

// resolveHref returns the item destination, falling back to an external
// reference URL.
func (item rawMenuItem) resolveHref() string {
	if item.URL != "" {
		return item.URL
	}
	if item.Type == "external" && item.Reference.URL != "" {
		return item.Reference.URL
	}
	return ""
}

type rawMenu struct {
	LegacyID model.ID      `json:"_id"`
	ID       model.ID      `json:"id"`
	Name     string        `json:"name"`
	Slug     string        `json:"slug"`
	Items    []rawMenuItem `json:"items"`
	Tree     []rawMenuItem `json:"tree"`
}

type menuNode struct {
	item     rawMenuItem
	children []*menuNode
}

// buildTree links a flat item list into a tree, attaching children to
// known parents and keeping orphans as roots. Levels are sorted by
// order then title.
func buildTree(items []rawMenuItem) []*menuNode {
	if len(items) == 0 {
		return nil
	}

	lookup := make(map[string]*menuNode, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		id := item.identifier()
		if id == "" {
			continue
		}
		lookup[id] = &menuNode{item: item}
		order = append(order, id)
	}

	var roots []*menuNode
	for _, id := range order {
		node := lookup[id]
		parentID := node.item.ParentID.String()
		if parentID != "" && lookup[parentID] != nil && parentID != id {
			parent := lookup[parentID]
			parent.children = append(parent.children, node)
		} else {
			roots = append(roots, node)
		}
	}

	var sortLevel func(nodes []*menuNode)
	sortLevel = func(nodes []*menuNode) {
		sort.SliceStable(nodes, func(i, j int) bool {
			oi, oj := nodes[i].item.Order.Int(), nodes[j].item.Order.Int()
			if oi != oj {
				return oi < oj
			}
			return strings.Compare(nodes[i].item.Title, nodes[j].item.Title) < 0
		})
		for _, node := range nodes {
			sortLevel(node.children)
		}
	}
	sortLevel(roots)

	return roots
}

// mapNodes shapes tree nodes for rendering, pruning items without a
// destination.
func mapNodes(nodes []*menuNode) []model.MenuItem {
	var out []model.MenuItem
	for _, node := range nodes {
		href := node.item.resolveHref()
		if href == "" {
			continue
		}

		target := node.item.Target
		if target == "" {
			target = "_self"
		}

		out = append(out, model.MenuItem{
			ID:         node.item.identifier(),
			Label:      node.item.Title,
			Href:       href,
			Target:     target,
			CSSClasses: node.item.CSSClasses,
			Children:   mapNodes(node.children),
		})
	}
	return out
}

// prebuiltNodes wraps an already nested item tree into nodes.
func prebuiltNodes(items []rawMenuItem) []*menuNode {
	var out []*menuNode
	for _, item := range items {
		out = append(out, &menuNode{
			item:     item,
			children: prebuiltNodes(item.Children),
		})
	}
	return out
}

func shapeMenu(raw rawMenu, nodes []*menuNode, fallbackSlug string) *model.Menu {
	slug := raw.Slug
	if slug == "" {
		slug = fallbackSlug
	}
	return &model.Menu{
		ID:    model.FirstID(raw.LegacyID, raw.ID).String(),
		Name:  raw.Name,
		Slug:  slug,
		Items: mapNodes(nodes),
	}
}

func (s *MenuService) fetchByID(ctx context.Context, id string) (*model.Menu, error) {
	if id == "" {
		return nil, nil
	}

	var raw rawMenu
	found, err := s.api.GetJSON(ctx, "/menus/"+id, nil, true, &raw)
	if err != nil || !found {
		return nil, err
	}

	return shapeMenu(raw, buildTree(raw.Items), ""), nil
}

func (s *MenuService) fetchBySlug(ctx context.Context, slug string) (*model.Menu, error) {
	if slug == "" {
		return nil, nil
	}

	var raw rawMenu
	found, err := s.api.GetJSON(ctx, "/public/menus/slug/"+slug, nil, true, &raw)
	if err != nil || !found {
		return nil, err
	}

	// The public slug endpoint may return a prebuilt tree.
	nodes := prebuiltNodes(raw.Tree)
	if nodes == nil {
		nodes = buildTree(raw.Items)
	}

	return shapeMenu(raw, nodes, slug), nil
}

// Ensure returns the cached menu for a key, refreshing when the TTL has
// passed, force is set, or the cached menu no longer matches the
// configured reference. Stale menus are served when a refresh fails.
func (s *MenuService) Ensure(ctx context.Context, key string, force bool) (*model.Menu, error) {
	ref := s.refs[key]
	now := s.now()

	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		entry = &menuEntry{}
		s.entries[key] = entry
	}

	if ref.IsZero() {
		entry.menu = nil
		entry.fetchedAt = now
		s.mu.Unlock()
		return nil, nil
	}

	valid := !force &&
		entry.menu != nil &&
		now.Sub(entry.fetchedAt) < s.ttl &&
		((ref.ID != "" && entry.menu.ID == ref.ID) ||
			(ref.Slug != "" && entry.menu.Slug == ref.Slug))
	cached := entry.menu
	s.mu.Unlock()

	if valid {
		return cached, nil
	}

	menu, err := s.fetchByID(ctx, ref.ID)
	if err == nil && menu == nil {
		menu, err = s.fetchBySlug(ctx, ref.Slug)
	}
	if err != nil {
		if cached != nil {
			s.logger.Warn("menu refresh failed, serving stale menu", "key", key, "error", err)
			return cached, nil
		}
		return nil, err
	}

	s.mu.Lock()
	entry.menu = menu
	entry.fetchedAt = s.now()
	s.mu.Unlock()

	return menu, nil
}

// Menu returns the cached menu for a key without refreshing.
func (s *MenuService) Menu(key string) *model.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	return entry.menu
}
