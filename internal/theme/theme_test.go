package theme

import "testing"

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"#1e73be", "#1E73BE"},
		{" #ABC ", "#ABC"},
		{"#12345", ""},
		{"1E73BE", ""},
		{"", ""},
		{"#GGGGGG", ""},
	}

	for _, tt := range tests {
		if got := NormalizeHex(tt.input); got != tt.want {
			t.Errorf("NormalizeHex(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFromBrandingNil(t *testing.T) {
	got := FromBranding(nil, "https://example.org", "inline")
	if got.SiteURL != "https://example.org" {
		t.Errorf("expected site URL override, got %s", got.SiteURL)
	}
	if got.LogoLayout != "inline" {
		t.Errorf("expected inline layout, got %s", got.LogoLayout)
	}
	if got.SiteName != Default().SiteName {
		t.Errorf("expected default site name, got %s", got.SiteName)
	}
}

func TestFromBrandingOverrides(t *testing.T) {
	branding := &Branding{
		Name:         "Acme",
		SiteName:     "Acme News",
		LogoURL:      "https://cdn.example.com/logo.png",
		PrimaryColor: "#ff0000",
	}

	got := FromBranding(branding, "", "")
	if got.SiteName != "Acme News" {
		t.Errorf("expected site name from branding, got %s", got.SiteName)
	}
	if got.BrandName != "Acme" {
		t.Errorf("expected brand name from branding, got %s", got.BrandName)
	}
	if got.PrimaryColor != "#FF0000" {
		t.Errorf("expected normalized primary color, got %s", got.PrimaryColor)
	}
	// secondary falls back to primary when absent
	if got.SecondaryColor != "#FF0000" {
		t.Errorf("expected secondary to mirror primary, got %s", got.SecondaryColor)
	}
	if got.LogoURL != "https://cdn.example.com/logo.png" {
		t.Errorf("expected logo URL from branding, got %s", got.LogoURL)
	}
}

func TestFromBrandingInvalidColorIgnored(t *testing.T) {
	branding := &Branding{PrimaryColor: "red"}
	got := FromBranding(branding, "", "")
	if got.PrimaryColor != Default().PrimaryColor {
		t.Errorf("invalid color should keep default, got %s", got.PrimaryColor)
	}
}
