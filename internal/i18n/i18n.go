// Package i18n provides localized copy for the theme's user-facing pages.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
}

// catalog is the global catalog instance.
var catalog *Catalog

// SupportedLanguages lists the languages the theme ships copy for.
var SupportedLanguages = []string{"tr", "en"}

// Init initializes the i18n system.
func Init(logger *slog.Logger) error {
	catalog = &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  "tr",
	}

	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		tags = append(tags, language.MustParse(lang))
	}
	catalog.supported = tags
	catalog.matcher = language.NewMatcher(tags)

	for _, lang := range SupportedLanguages {
		if err := catalog.loadLanguage(lang); err != nil {
			return fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}

	return nil
}

// SetDefaultLanguage overrides the fallback language.
func SetDefaultLanguage(lang string) {
	if catalog == nil || !IsSupported(lang) {
		return
	}
	catalog.mu.Lock()
	catalog.defaultLang = strings.ToLower(lang)
	catalog.mu.Unlock()
}

// loadLanguage loads translations for a specific language.
func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string)
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	return nil
}

// T translates a message key to the specified language.
// If the key is not found, it returns the key itself.
// Supports optional arguments for string formatting.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	lang = normalize(lang)

	langTranslations, ok := catalog.translations[lang]
	if !ok {
		langTranslations, ok = catalog.translations[catalog.defaultLang]
		if !ok {
			return key
		}
	}

	translation, ok := langTranslations[key]
	if !ok {
		if lang != catalog.defaultLang {
			if defaultTranslations, ok := catalog.translations[catalog.defaultLang]; ok {
				if translation, ok = defaultTranslations[key]; ok {
					if len(args) > 0 {
						return fmt.Sprintf(translation, args...)
					}
					return translation
				}
			}
		}
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}

	return translation
}

// normalize maps a locale candidate ("en-US") onto a supported language code.
func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		lang = lang[:idx]
	}
	return lang
}

// IsSupported checks if a language code is supported.
func IsSupported(lang string) bool {
	lang = normalize(lang)
	for _, supported := range SupportedLanguages {
		if supported == lang {
			return true
		}
	}
	return false
}

// AcceptedLanguages parses an Accept-Language header into an ordered list
// of locale candidates (raw tags, lowercased).
func AcceptedLanguages(header string) []string {
	if header == "" {
		return nil
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}

	locales := make([]string, 0, len(tags))
	for _, tag := range tags {
		locales = append(locales, strings.ToLower(tag.String()))
	}
	return locales
}

// ResolvePrimaryLocale picks the display locale from an ordered candidate
// list: the first candidate with an en/tr prefix wins, else the first
// candidate, else "tr".
func ResolvePrimaryLocale(candidates []string) string {
	cleaned := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			cleaned = append(cleaned, c)
		}
	}

	for _, prefix := range []string{"en", "tr"} {
		for _, c := range cleaned {
			if strings.HasPrefix(c, prefix) {
				return c
			}
		}
	}

	if len(cleaned) > 0 {
		return cleaned[0]
	}
	return "tr"
}
