package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type record struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestTypedCacheRoundTrip(t *testing.T) {
	c := NewTypedCache[record](newTestCache(t), time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "r1", &record{ID: "1", Title: "hello"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(ctx, "r1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Title != "hello" {
		t.Errorf("unexpected title: %s", got.Title)
	}
}

func TestTypedCacheMiss(t *testing.T) {
	c := NewTypedCache[record](newTestCache(t), time.Minute)
	if _, ok := c.Get(context.Background(), "missing"); ok {
		t.Error("expected cache miss")
	}
}

func TestTypedCacheGetOrSet(t *testing.T) {
	c := NewTypedCache[record](newTestCache(t), time.Minute)
	ctx := context.Background()

	calls := 0
	compute := func() (*record, error) {
		calls++
		return &record{ID: "2"}, nil
	}

	first, err := c.GetOrSet(ctx, "r2", compute)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	second, err := c.GetOrSet(ctx, "r2", compute)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected compute to run once, ran %d times", calls)
	}
	if first.ID != second.ID {
		t.Errorf("expected cached value, got %v then %v", first, second)
	}
}

func TestTypedCacheGetOrSetError(t *testing.T) {
	c := NewTypedCache[record](newTestCache(t), time.Minute)

	wantErr := errors.New("upstream down")
	_, err := c.GetOrSet(context.Background(), "r3", func() (*record, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected compute error, got %v", err)
	}
}
