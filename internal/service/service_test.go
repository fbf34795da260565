package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devburak/contextHub-Theme/internal/api"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(api.Options{
		BaseURL:  srv.URL,
		APIKey:   "test-key",
		TenantID: "tenant-1",
	})
}

// stubClock is a manually advanced time source shared by cache TTL tests.
type stubClock struct {
	now time.Time
}

func newStubClock() *stubClock {
	return &stubClock{now: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stubClock) Now() time.Time { return c.now }

func (c *stubClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
