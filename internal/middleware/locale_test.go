package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devburak/contextHub-Theme/internal/i18n"
)

func initI18n(t *testing.T) {
	t.Helper()
	if err := i18n.Init(slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("init i18n: %v", err)
	}
}

func localeProbe(locale *string, chain *[]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*locale = LocaleFrom(r.Context())
		*chain = LocaleChainFrom(r.Context())
	})
}

func TestLocaleQueryParamWins(t *testing.T) {
	initI18n(t)

	var locale string
	var chain []string
	h := Locale(func() string { return "tr" })(localeProbe(&locale, &chain))

	r := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	r.Header.Set("Accept-Language", "tr-TR,tr;q=0.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if locale != "en" {
		t.Errorf("locale = %q, want en", locale)
	}
	if len(chain) == 0 || chain[0] != "en" {
		t.Errorf("chain = %v, want en first", chain)
	}

	cookies := rec.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == LocaleCookieName && c.Value == "en" {
			found = true
		}
	}
	if !found {
		t.Error("expected locale cookie to be set")
	}
}

func TestLocaleCookiePreference(t *testing.T) {
	initI18n(t)

	var locale string
	var chain []string
	h := Locale(func() string { return "tr" })(localeProbe(&locale, &chain))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: LocaleCookieName, Value: "en"})
	h.ServeHTTP(httptest.NewRecorder(), r)

	if locale != "en" {
		t.Errorf("locale = %q, want en", locale)
	}
}

func TestLocaleAcceptLanguage(t *testing.T) {
	initI18n(t)

	var locale string
	var chain []string
	h := Locale(func() string { return "tr" })(localeProbe(&locale, &chain))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "en-US,en;q=0.9,tr;q=0.5")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if locale != "en" {
		t.Errorf("locale = %q, want en", locale)
	}
}

func TestLocaleFallback(t *testing.T) {
	initI18n(t)

	var locale string
	var chain []string
	h := Locale(func() string { return "tr" })(localeProbe(&locale, &chain))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if locale != "tr" {
		t.Errorf("locale = %q, want tr", locale)
	}
}
