package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devburak/contextHub-Theme/internal/model"
)

type fakeCategories struct {
	calls int
	err   error
}

func (f *fakeCategories) Ensure(ctx context.Context, force bool) ([]model.Category, error) {
	f.calls++
	return nil, f.err
}

type fakeMenus struct {
	keys []string
	err  error
}

func (f *fakeMenus) Ensure(ctx context.Context, key string, force bool) (*model.Menu, error) {
	f.keys = append(f.keys, key)
	return nil, f.err
}

func TestSiteContextRefreshesSources(t *testing.T) {
	categories := &fakeCategories{}
	menus := &fakeMenus{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var served bool
	h := SiteContext(categories, menus, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !served {
		t.Fatal("next handler not called")
	}
	if categories.calls != 1 {
		t.Errorf("category ensure calls = %d, want 1", categories.calls)
	}
	if len(menus.keys) != 2 {
		t.Errorf("menu ensure keys = %v, want primary and footer", menus.keys)
	}
}

func TestSiteContextToleratesFailures(t *testing.T) {
	categories := &fakeCategories{err: errors.New("upstream down")}
	menus := &fakeMenus{err: errors.New("upstream down")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var served bool
	h := SiteContext(categories, menus, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !served {
		t.Fatal("failures must not block the request")
	}
}
