package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder collects site URLs and renders the sitemap XML.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: strings.TrimRight(siteURL, "/")}
}

// AddHomepage adds the homepage entry.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqHourly,
		Priority:   "1.0",
	})
}

// AddStatic adds a fixed page such as /search or /contact.
func (b *SitemapBuilder) AddStatic(path string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.3",
	})
}

// AddCategory adds a category listing page.
func (b *SitemapBuilder) AddCategory(slug string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/category/" + slug,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "0.7",
	})
}

// AddContent adds an article page.
func (b *SitemapBuilder) AddContent(slug string, published time.Time) {
	entry := SitemapURL{
		Loc:        b.siteURL + "/content/" + slug,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if !published.IsZero() {
		entry.LastMod = published.Format("2006-01-02")
	}
	b.urls = append(b.urls, entry)
}

// Count returns the number of collected URLs.
func (b *SitemapBuilder) Count() int {
	return len(b.urls)
}

// Build renders the sitemap XML document.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	body, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
