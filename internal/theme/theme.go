// Package theme derives the rendering theme from tenant branding.
package theme

import (
	"regexp"
	"strings"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NavItem is a static navigation entry used when no menu is configured.
type NavItem struct {
	Label    string
	Href     string
	Children []NavItem
}

// Hero holds the homepage hero copy.
type Hero struct {
	Headline    string
	Description string
}

// Theme holds the visual identity used by the templates.
type Theme struct {
	SiteName        string
	BrandName       string
	SiteURL         string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	BackgroundColor string
	SurfaceColor    string
	TextColor       string
	MutedTextColor  string
	BorderColor     string
	LogoURL         string
	FaviconURL      string
	LogoLayout      string
	Navigation      []NavItem
	Hero            Hero
}

// Branding is the tenant branding block returned by the content API.
type Branding struct {
	Name           string `json:"name"`
	SiteName       string `json:"siteName"`
	LogoURL        string `json:"logoUrl"`
	FaviconURL     string `json:"faviconUrl"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

// Default returns the baseline theme used before tenant branding loads.
func Default() Theme {
	return Theme{
		SiteName:        "KESK English",
		BrandName:       "KESK",
		SiteURL:         "https://en.kesk.org.tr",
		PrimaryColor:    "#1E73BE",
		SecondaryColor:  "#0F172A",
		AccentColor:     "#38BDF8",
		BackgroundColor: "#F1F5F9",
		SurfaceColor:    "#FFFFFF",
		TextColor:       "#0F172A",
		MutedTextColor:  "#4B5563",
		BorderColor:     "rgba(15, 23, 42, 0.12)",
		LogoLayout:      "fullwidth",
		Navigation: []NavItem{
			{Label: "Home", Href: "/"},
			{Label: "Reports", Href: "/#reports", Children: []NavItem{
				{Label: "Statements", Href: "/#statements"},
				{Label: "Delegations", Href: "/#delegations"},
			}},
			{Label: "Contact", Href: "/#contact"},
		},
		Hero: Hero{
			Headline:    "Building peace, equality and democracy",
			Description: "Stay up to date with the latest activities, statements and reports from the Confederation of Public Employees Trade Union.",
		},
	}
}

// NormalizeHex validates a hex color and returns it uppercased, or "" when
// the value is not a #RGB or #RRGGBB color.
func NormalizeHex(color string) string {
	value := strings.TrimSpace(color)
	if hexColorRegex.MatchString(value) {
		return strings.ToUpper(value)
	}
	return ""
}

// FromBranding applies tenant branding on top of the default theme.
// Invalid colors are ignored; a missing secondary color falls back to the
// primary so the palette stays coherent.
func FromBranding(branding *Branding, siteURL, logoLayout string) Theme {
	t := Default()

	if siteURL != "" {
		t.SiteURL = siteURL
	}
	if logoLayout == "inline" || logoLayout == "fullwidth" {
		t.LogoLayout = logoLayout
	}

	if branding == nil {
		return t
	}

	if branding.SiteName != "" {
		t.SiteName = branding.SiteName
	} else if branding.Name != "" {
		t.SiteName = branding.Name
	}
	if branding.Name != "" {
		t.BrandName = branding.Name
	}
	if branding.LogoURL != "" {
		t.LogoURL = branding.LogoURL
	}
	if branding.FaviconURL != "" {
		t.FaviconURL = branding.FaviconURL
	}

	primary := NormalizeHex(branding.PrimaryColor)
	secondary := NormalizeHex(branding.SecondaryColor)

	if primary != "" {
		t.PrimaryColor = primary
	}
	switch {
	case secondary != "":
		t.SecondaryColor = secondary
	case primary != "":
		t.SecondaryColor = primary
	}

	return t
}
