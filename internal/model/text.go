package model

import (
	"encoding/json"
	"sort"
)

// LocalizedText decodes values that may be a plain string or a map of
// locale codes to translations, like {"tr": "...", "en": "..."}.
type LocalizedText struct {
	plain    string
	byLocale map[string]string
}

// NewLocalizedText builds a localized value from a locale map. Used in
// tests and defaults.
func NewLocalizedText(values map[string]string) LocalizedText {
	return LocalizedText{byLocale: values}
}

// PlainText builds a single-value localized text.
func PlainText(s string) LocalizedText {
	return LocalizedText{plain: s}
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.plain = s
		t.byLocale = nil
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		t.plain = ""
		t.byLocale = m
		return nil
	}

	t.plain = ""
	t.byLocale = nil
	return nil
}

// IsZero reports whether no value is present in any locale.
func (t LocalizedText) IsZero() bool {
	return t.plain == "" && len(t.byLocale) == 0
}

// Resolve picks the best translation for an ordered locale preference
// list. Plain strings are returned as-is. The chain is: each preferred
// locale, then each fallback, then any remaining value (smallest locale
// key first, for determinism), then empty string.
func (t LocalizedText) Resolve(preferred []string, fallbacks ...string) string {
	if t.plain != "" {
		return t.plain
	}
	if len(t.byLocale) == 0 {
		return ""
	}

	seen := make(map[string]bool)
	chain := make([]string, 0, len(preferred)+len(fallbacks))
	for _, locale := range append(append([]string{}, preferred...), fallbacks...) {
		if locale == "" || seen[locale] {
			continue
		}
		seen[locale] = true
		chain = append(chain, locale)
	}

	for _, locale := range chain {
		if v := t.byLocale[locale]; v != "" {
			return v
		}
	}

	keys := make([]string, 0, len(t.byLocale))
	for k := range t.byLocale {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := t.byLocale[k]; v != "" {
			return v
		}
	}
	return ""
}
