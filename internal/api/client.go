// Package api provides a thin client for the ContextHub content API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client configuration constants
const (
	RequestTimeout = 30 * time.Second // HTTP request timeout
	UserAgent      = "contextHub-Theme/1.0"
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Status int
	Body   string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ContextHub API request failed (%d) for %s", e.Status, e.URL)
}

// IsNotFound reports whether the error is an upstream 404.
func (e *StatusError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// RequestOptions controls a single API request.
type RequestOptions struct {
	Method        string
	Query         url.Values
	Body          any
	Headers       map[string]string
	AllowNotFound bool

	// SkipAuth omits the bearer and tenant headers (public endpoints).
	SkipAuth bool
}

// Client issues authenticated JSON requests against the content API.
type Client struct {
	baseURL  string
	apiKey   string
	tenantID string
	http     *http.Client
	logger   *slog.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	APIKey   string
	TenantID string
	Logger   *slog.Logger

	// HTTPClient overrides the default client (used in tests).
	HTTPClient *http.Client
}

// New creates a Client with a shared transport and sane timeouts.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		tenantID: opts.TenantID,
		http:     httpClient,
		logger:   logger,
	}
}

// buildURL joins the base URL with path and attaches non-empty query parameters.
func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) == 0 {
		return u
	}

	filtered := url.Values{}
	for key, vals := range query {
		for _, v := range vals {
			if v != "" {
				filtered.Add(key, v)
			}
		}
	}
	if encoded := filtered.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// Request performs an API call and returns the raw JSON response.
// A 404 with AllowNotFound set, or an empty response body, yields (nil, nil).
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	reqURL := c.buildURL(path, opts.Query)

	var bodyReader io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body for %s: %w", reqURL, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", reqURL, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if !opts.SkipAuth {
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		if c.tenantID != "" {
			req.Header.Set("X-Tenant-Id", c.tenantID)
		}
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", reqURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if opts.AllowNotFound && resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{
			Status: resp.StatusCode,
			Body:   string(errBody),
			URL:    reqURL,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", reqURL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse ContextHub API response for %s", reqURL)
	}

	return data, nil
}

// GetJSON performs a GET request and decodes the response into v.
// Returns false if the resource was absent (404 with allowNotFound, or empty body).
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, allowNotFound bool, v any) (bool, error) {
	raw, err := c.Request(ctx, path, RequestOptions{Query: query, AllowNotFound: allowNotFound})
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decoding ContextHub API response for %s: %w", path, err)
	}
	return true, nil
}
