package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/devburak/contextHub-Theme/internal/i18n"
)

// Context keys for locale data.
const (
	ContextKeyLocale      ContextKey = "locale"
	ContextKeyLocaleChain ContextKey = "locale_chain"
)

// LocaleCookieName is the cookie name for language preference.
const LocaleCookieName = "theme_lang"

// Locale detects the visitor's language preference. Priority order:
// 1. Query parameter ?lang=XX (explicit switch, updates cookie)
// 2. Cookie preference
// 3. Accept-Language header
// 4. The fallback language
// The full candidate chain is kept in the context so downstream text
// resolution can walk it.
func Locale(fallback func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var chain []string

			if queryLang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); queryLang != "" {
				if i18n.IsSupported(queryLang) {
					SetLocaleCookie(w, queryLang)
				}
				chain = append(chain, queryLang)
			}

			if cookie, err := r.Cookie(LocaleCookieName); err == nil && cookie.Value != "" {
				chain = append(chain, strings.ToLower(cookie.Value))
			}

			chain = append(chain, i18n.AcceptedLanguages(r.Header.Get("Accept-Language"))...)

			if fallback != nil {
				if lang := fallback(); lang != "" {
					chain = append(chain, strings.ToLower(lang))
				}
			}

			locale := i18n.ResolvePrimaryLocale(chain)

			ctx := context.WithValue(r.Context(), ContextKeyLocale, locale)
			ctx = context.WithValue(ctx, ContextKeyLocaleChain, chain)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetLocaleCookie persists the visitor's language choice for a year.
func SetLocaleCookie(w http.ResponseWriter, code string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LocaleCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// LocaleFrom returns the resolved locale from the request context.
func LocaleFrom(ctx context.Context) string {
	if locale, ok := ctx.Value(ContextKeyLocale).(string); ok && locale != "" {
		return locale
	}
	return "tr"
}

// LocaleChainFrom returns the full candidate chain from the request
// context, most preferred first.
func LocaleChainFrom(ctx context.Context) []string {
	if chain, ok := ctx.Value(ContextKeyLocaleChain).([]string); ok {
		return chain
	}
	return nil
}
