package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:  srv.URL + "/api",
		APIKey:   "test-key",
		TenantID: "tenant-1",
	})
}

func TestRequestSetsAuthHeaders(t *testing.T) {
	var gotAuth, gotTenant string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get("X-Tenant-Id")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	if _, err := c.Request(context.Background(), "/tenant/info", RequestOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotTenant != "tenant-1" {
		t.Errorf("expected tenant header, got %q", gotTenant)
	}
}

func TestRequestSkipAuth(t *testing.T) {
	var gotAuth, gotTenant string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get("X-Tenant-Id")
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := c.Request(context.Background(), "/public/forms/contact", RequestOptions{SkipAuth: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" || gotTenant != "" {
		t.Errorf("expected no auth headers, got %q / %q", gotAuth, gotTenant)
	}
}

func TestRequestStripsEmptyQueryParams(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	})

	query := url.Values{}
	query.Set("status", "published")
	query.Set("category", "")
	query.Set("page", "2")

	if _, err := c.Request(context.Background(), "/contents", RequestOptions{Query: query}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery.Get("status") != "published" || gotQuery.Get("page") != "2" {
		t.Errorf("expected non-empty params forwarded, got %v", gotQuery)
	}
	if _, present := gotQuery["category"]; present {
		t.Errorf("expected empty category param stripped, got %v", gotQuery)
	}
}

func TestRequestAllowNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	raw, err := c.Request(context.Background(), "/menus/missing", RequestOptions{AllowNotFound: true})
	if err != nil {
		t.Fatalf("expected nil error for allowed 404, got %v", err)
	}
	if raw != nil {
		t.Errorf("expected nil payload for allowed 404, got %s", raw)
	}
}

func TestRequestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	_, err := c.Request(context.Background(), "/categories", RequestOptions{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", statusErr.Status)
	}
	if statusErr.Body != "upstream exploded" {
		t.Errorf("expected error body preserved, got %q", statusErr.Body)
	}
}

func TestRequestEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := c.Request(context.Background(), "/contents", RequestOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != nil {
		t.Errorf("expected nil payload for empty body, got %s", raw)
	}
}

func TestRequestInvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.Request(context.Background(), "/contents", RequestOptions{})
	if err == nil {
		t.Fatal("expected parse error for non-JSON body")
	}
}

func TestRequestPostBody(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	_, err := c.Request(context.Background(), "/public/forms/f1/submit", RequestOptions{
		Method:  http.MethodPost,
		Body:    map[string]any{"locale": "en"},
		Headers: map[string]string{"X-API-Key": "pub-key"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["locale"] != "en" {
		t.Errorf("expected posted body forwarded, got %v", gotBody)
	}
}

func TestGetJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tenant":{"slug":"kesk"}}`))
	})

	var payload struct {
		Tenant struct {
			Slug string `json:"slug"`
		} `json:"tenant"`
	}
	found, err := c.GetJSON(context.Background(), "/tenant/info", nil, false, &payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected payload to be found")
	}
	if payload.Tenant.Slug != "kesk" {
		t.Errorf("expected decoded slug, got %q", payload.Tenant.Slug)
	}
}
