package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/devburak/contextHub-Theme/internal/cache"
)

func newContentService(t *testing.T, handler http.HandlerFunc) *ContentService {
	t.Helper()
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	return NewContentService(newTestAPI(t, handler), ContentOptions{
		Cache:          mem,
		PageSize:       2,
		MaxLookupPages: 3,
	})
}

func TestPickMedia(t *testing.T) {
	variants := []rawVariant{
		{Name: "thumb", URL: "https://cdn/t.jpg", Width: 100},
		{Name: "medium", URL: "https://cdn/m.jpg", Width: 600},
		{Name: "large", URL: "https://cdn/l.jpg", Width: 1200},
	}

	tests := []struct {
		name   string
		media  *rawMedia
		prefer string
		want   string
	}{
		{"nil media", nil, "", ""},
		{"preferred variant", &rawMedia{Variants: variants}, "medium", "https://cdn/m.jpg"},
		{"large fallback", &rawMedia{Variants: variants}, "banner", "https://cdn/l.jpg"},
		{"medium fallback", &rawMedia{Variants: variants[:2]}, "", "https://cdn/m.jpg"},
		{"first variant fallback", &rawMedia{Variants: variants[:1]}, "", "https://cdn/t.jpg"},
		{"flat url fallback", &rawMedia{URL: "https://cdn/flat.jpg"}, "", "https://cdn/flat.jpg"},
		{"no usable source", &rawMedia{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickMedia(tt.media, tt.prefer)
			if tt.want == "" {
				if got != nil {
					t.Errorf("pickMedia() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.URL != tt.want {
				t.Errorf("pickMedia() = %+v, want URL %q", got, tt.want)
			}
		})
	}
}

func TestPickMediaAltFallsBackToCaption(t *testing.T) {
	got := pickMedia(&rawMedia{URL: "https://cdn/a.jpg", Caption: "caption"}, "")
	if got == nil || got.Alt != "caption" {
		t.Errorf("alt = %+v, want caption fallback", got)
	}
}

func TestFeaturedShapesLeadItem(t *testing.T) {
	svc := newContentService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "published" {
			t.Errorf("status = %q, want published", got)
		}
		_, _ = w.Write([]byte(`{
			"items": [
				{"_id": "a-1", "title": "Lead", "slug": "lead", "publishAt": "2026-01-15T10:00:00Z",
				 "featuredMediaId": {"variants": [
					{"name": "large", "url": "https://cdn/lead-l.jpg"},
					{"name": "medium", "url": "https://cdn/lead-m.jpg"}
				 ]}},
				{"_id": "a-2", "title": "Second", "slug": "second",
				 "featuredMediaId": {"variants": [
					{"name": "large", "url": "https://cdn/second-l.jpg"},
					{"name": "medium", "url": "https://cdn/second-m.jpg"}
				 ]}}
			]
		}`))
	})

	items, err := svc.Featured(context.Background(), 4)
	if err != nil {
		t.Fatalf("Featured() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].HeroImage == nil || items[0].HeroImage.URL != "https://cdn/lead-l.jpg" {
		t.Errorf("lead image = %+v, want large variant", items[0].HeroImage)
	}
	if items[1].HeroImage == nil || items[1].HeroImage.URL != "https://cdn/second-m.jpg" {
		t.Errorf("second image = %+v, want medium variant", items[1].HeroImage)
	}
	if items[0].FormattedPublishDate != "15 January 2026" {
		t.Errorf("formatted date = %q", items[0].FormattedPublishDate)
	}
}

func TestGetBySlugUsesIndex(t *testing.T) {
	listCalls := 0
	svc := newContentService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/contents" && r.URL.Query().Get("search") == "":
			listCalls++
			_, _ = w.Write([]byte(`{"items": [{"_id": "a-1", "title": "Lead", "slug": "lead"}]}`))
		case r.URL.Path == "/contents/a-1":
			_, _ = w.Write([]byte(`{"content": {"_id": "a-1", "title": "Lead", "slug": "lead", "html": "<p>Body</p>"}}`))
		default:
			http.NotFound(w, r)
		}
	})

	// Populate the slug index through a list call.
	if _, err := svc.Featured(context.Background(), 4); err != nil {
		t.Fatalf("Featured() error = %v", err)
	}

	detail, err := svc.Get(context.Background(), "", "lead")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail == nil || detail.ID != "a-1" {
		t.Fatalf("detail = %+v", detail)
	}
	if listCalls != 1 {
		t.Errorf("list calls = %d, want 1 (slug resolved from index)", listCalls)
	}
}

func TestGetBySlugScansWithinBound(t *testing.T) {
	listCalls := 0
	svc := newContentService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contents" {
			http.NotFound(w, r)
			return
		}
		listCalls++
		_, _ = w.Write([]byte(`{
			"items": [{"_id": "x-1", "title": "Other", "slug": "other"}],
			"pagination": {"page": ` + r.URL.Query().Get("page") + `, "pages": 10}
		}`))
	})

	detail, err := svc.Get(context.Background(), "", "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail != nil {
		t.Errorf("detail = %+v, want nil for unknown slug", detail)
	}
	if listCalls != 3 {
		t.Errorf("list calls = %d, want bounded scan of 3 pages", listCalls)
	}
}

func TestGetSanitizesBodyAndCaches(t *testing.T) {
	detailCalls := 0
	svc := newContentService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contents/a-1" {
			http.NotFound(w, r)
			return
		}
		detailCalls++
		_, _ = w.Write([]byte(`{
			"_id": "a-1", "title": "Lead", "slug": "lead",
			"html": "<p>Hello</p><script>alert(1)</script>",
			"categories": ["c-1", {"_id": "c-2"}]
		}`))
	})

	detail, err := svc.Get(context.Background(), "a-1", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail == nil {
		t.Fatal("detail is nil")
	}
	if strings.Contains(detail.Body, "<script>") {
		t.Errorf("script not sanitized: %q", detail.Body)
	}
	if !strings.Contains(detail.Body, "<p>Hello</p>") {
		t.Errorf("paragraph lost in sanitization: %q", detail.Body)
	}
	if len(detail.CategoryIDs) != 2 || detail.CategoryIDs[1] != "c-2" {
		t.Errorf("category ids = %v", detail.CategoryIDs)
	}

	if _, err := svc.Get(context.Background(), "a-1", ""); err != nil {
		t.Fatalf("cached Get() error = %v", err)
	}
	if detailCalls != 1 {
		t.Errorf("detail calls = %d, want 1 (second read from cache)", detailCalls)
	}
}

func TestGetMissingContent(t *testing.T) {
	svc := newContentService(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	detail, err := svc.Get(context.Background(), "nope", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail != nil {
		t.Errorf("detail = %+v, want nil", detail)
	}
}

func TestSearchTrimsAndSkipsEmptyQuery(t *testing.T) {
	calls := 0
	svc := newContentService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.URL.Query().Get("search"); got != "union" {
			t.Errorf("search = %q, want trimmed term", got)
		}
		_, _ = w.Write([]byte(`{"results": [{"_id": "a-1", "title": "Hit", "slug": "hit"}], "pagination": {"page": 1, "pages": 1, "total": 1}}`))
	})

	page, err := svc.Search(context.Background(), "  union  ", 1, 12)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(page.Items) != 1 || page.Pagination == nil || page.Pagination.Total != 1 {
		t.Errorf("unexpected page: %+v", page)
	}

	empty, err := svc.Search(context.Background(), "   ", 1, 12)
	if err != nil {
		t.Fatalf("empty Search() error = %v", err)
	}
	if len(empty.Items) != 0 || calls != 1 {
		t.Errorf("empty query should not call upstream (calls=%d)", calls)
	}
}

func TestByCategoryWithoutID(t *testing.T) {
	svc := newContentService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected without a category id")
	})

	page, err := svc.ByCategory(context.Background(), "", 1, 12)
	if err != nil {
		t.Fatalf("ByCategory() error = %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("items = %v, want empty", page.Items)
	}
}
