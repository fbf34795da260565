package service

import (
	"context"
	"net/http"
	"testing"
	"time"
)

const categoriesPayload = `{
	"categories": [
		{"_id": "c-2", "name": "Bravo", "slug": "bravo", "position": 2},
		{"_id": {"_id": "c-1"}, "name": "Alpha", "slug": "alpha", "position": 1, "ancestors": ["c-0", {"_id": "c-9"}]},
		{"_id": "c-3", "name": "Aaa", "slug": "aaa", "position": 2, "parentId": "c-1"}
	]
}`

func newCategoryService(t *testing.T, clock *stubClock, handler http.HandlerFunc) *CategoryService {
	t.Helper()
	return NewCategoryService(newTestAPI(t, handler), CategoryOptions{
		TTL: 5 * time.Minute,
		Now: clock.Now,
	})
}

func TestCategoryEnsureNormalizesAndSorts(t *testing.T) {
	clock := newStubClock()
	svc := newCategoryService(t, clock, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("flat") != "true" {
			t.Errorf("expected flat=true, got %q", r.URL.Query().Get("flat"))
		}
		_, _ = w.Write([]byte(categoriesPayload))
	})

	list, err := svc.Ensure(context.Background(), false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d categories, want 3", len(list))
	}

	// Position ascending, ties by name.
	if list[0].Slug != "alpha" || list[1].Slug != "aaa" || list[2].Slug != "bravo" {
		t.Errorf("unexpected order: %s, %s, %s", list[0].Slug, list[1].Slug, list[2].Slug)
	}

	alpha, ok := svc.BySlug("alpha")
	if !ok {
		t.Fatal("alpha not indexed by slug")
	}
	if alpha.ID != "c-1" {
		t.Errorf("embedded id not normalized: %q", alpha.ID)
	}
	if len(alpha.Ancestors) != 2 || alpha.Ancestors[1] != "c-9" {
		t.Errorf("ancestors not normalized: %v", alpha.Ancestors)
	}

	if _, ok := svc.ByID("c-3"); !ok {
		t.Error("c-3 not indexed by id")
	}

	top := svc.TopLevel()
	if len(top) != 2 {
		t.Errorf("got %d top level categories, want 2", len(top))
	}

	trail := svc.Trail([]string{"c-1", "missing", "c-3"})
	if len(trail) != 2 || trail[0].ID != "c-1" || trail[1].ID != "c-3" {
		t.Errorf("unexpected trail: %v", trail)
	}
}

func TestCategoryEnsureUsesTTL(t *testing.T) {
	clock := newStubClock()
	calls := 0
	svc := newCategoryService(t, clock, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(categoriesPayload))
	})

	for i := 0; i < 3; i++ {
		if _, err := svc.Ensure(context.Background(), false); err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("calls = %d within TTL, want 1", calls)
	}

	clock.Advance(6 * time.Minute)
	if _, err := svc.Ensure(context.Background(), false); err != nil {
		t.Fatalf("Ensure() after TTL error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d after TTL, want 2", calls)
	}

	if _, err := svc.Ensure(context.Background(), true); err != nil {
		t.Fatalf("forced Ensure() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d after force, want 3", calls)
	}
}

func TestCategoryEnsureServesStaleOnError(t *testing.T) {
	clock := newStubClock()
	calls := 0
	svc := newCategoryService(t, clock, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, `{"message":"down"}`, http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(categoriesPayload))
	})

	if _, err := svc.Ensure(context.Background(), false); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	clock.Advance(10 * time.Minute)
	list, err := svc.Ensure(context.Background(), false)
	if err != nil {
		t.Fatalf("stale Ensure() error = %v", err)
	}
	if len(list) != 3 {
		t.Errorf("stale list length = %d, want 3", len(list))
	}
}

func TestCategoryEnsurePropagatesErrorWithoutCache(t *testing.T) {
	clock := newStubClock()
	svc := newCategoryService(t, clock, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"down"}`, http.StatusBadGateway)
	})

	if _, err := svc.Ensure(context.Background(), false); err == nil {
		t.Fatal("expected error when no cached list exists")
	}
}

func TestCategoryEnsureAcceptsItemsEnvelope(t *testing.T) {
	clock := newStubClock()
	svc := newCategoryService(t, clock, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"_id": "c-1", "name": "Alpha", "slug": "alpha"}]}`))
	})

	list, err := svc.Ensure(context.Background(), false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if len(list) != 1 || list[0].Slug != "alpha" {
		t.Errorf("unexpected list: %v", list)
	}
}
