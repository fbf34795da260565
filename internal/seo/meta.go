// Package seo builds meta tags, robots.txt, and the sitemap for the
// public site.
package seo

import "strings"

// Meta holds SEO meta tag data for a page.
type Meta struct {
	Title         string
	Description   string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string
	OGType        string
	OGSiteName    string
	OGURL         string
	TwitterCard   string
}

// PageInfo carries the page fields meta tags are derived from.
type PageInfo struct {
	Title       string
	Description string
	Path        string
	Image       string
	IsArticle   bool
}

// SiteInfo carries site-wide SEO settings.
type SiteInfo struct {
	Name        string
	URL         string
	Description string
	LogoURL     string
}

// BuildMeta creates a Meta for a page, falling back to site defaults.
func BuildMeta(page *PageInfo, site SiteInfo) *Meta {
	meta := &Meta{
		OGType:      "website",
		OGSiteName:  site.Name,
		TwitterCard: "summary_large_image",
	}

	if page == nil {
		meta.Title = site.Name
		meta.Description = site.Description
		meta.Canonical = strings.TrimRight(site.URL, "/") + "/"
		meta.OGImage = makeAbsoluteURL(site.LogoURL, site.URL)
	} else {
		if page.IsArticle {
			meta.OGType = "article"
		}
		meta.Title = page.Title
		meta.Description = page.Description
		if meta.Description == "" {
			meta.Description = site.Description
		}
		meta.Canonical = strings.TrimRight(site.URL, "/") + page.Path

		meta.OGImage = makeAbsoluteURL(page.Image, site.URL)
		if meta.OGImage == "" {
			meta.OGImage = makeAbsoluteURL(site.LogoURL, site.URL)
		}
	}

	meta.OGTitle = meta.Title
	meta.OGDescription = meta.Description
	meta.OGURL = meta.Canonical
	return meta
}

// makeAbsoluteURL resolves a path against the site URL. Absolute URLs
// pass through unchanged.
func makeAbsoluteURL(u, siteURL string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return strings.TrimRight(siteURL, "/") + u
}
