package util

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup tags from a string.
func StripHTML(s string) string {
	if s == "" {
		return s
	}
	return tagRegex.ReplaceAllString(s, "")
}

// Summarize produces a plain-text summary: entities decoded, tags stripped,
// trimmed to maxLength with an ellipsis.
func Summarize(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	clean := StripHTML(html.UnescapeString(s))
	runes := []rune(clean)
	if len(runes) <= maxLength {
		return clean
	}
	return strings.TrimRight(string(runes[:maxLength]), " \t\n") + "…"
}

// FormatDate renders a timestamp as "2 January 2006". Empty for zero times.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// ParseDate accepts the timestamp layouts the content API emits.
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ShareLink is a social share target for a piece of content.
type ShareLink struct {
	Provider string
	URL      string
}

// BuildShareURL returns the share URL for a provider, or the page URL for
// unknown providers.
func BuildShareURL(provider, title, pageURL string) string {
	switch provider {
	case "facebook":
		return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(pageURL)
	case "x":
		return "https://twitter.com/intent/tweet?text=" + url.QueryEscape(title) + "&url=" + url.QueryEscape(pageURL)
	case "pinterest":
		return "https://pinterest.com/pin/create/button/?url=" + url.QueryEscape(pageURL) + "&description=" + url.QueryEscape(title)
	case "whatsapp":
		return "https://wa.me/?text=" + url.QueryEscape(title+" "+pageURL)
	default:
		return pageURL
	}
}

// ShareLinks builds the standard share link set for a content page.
func ShareLinks(title, pageURL string) []ShareLink {
	providers := []string{"facebook", "x", "pinterest", "whatsapp"}
	links := make([]ShareLink, 0, len(providers))
	for _, p := range providers {
		links = append(links, ShareLink{Provider: p, URL: BuildShareURL(p, title, pageURL)})
	}
	return links
}
