package geoip

import "testing"

func TestNewDisabled(t *testing.T) {
	g, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	if g.IsEnabled() {
		t.Error("lookup should be disabled without a database path")
	}
	if err := g.Reload(); err != nil {
		t.Errorf("Reload() without path error = %v", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewMissingDatabase(t *testing.T) {
	g, err := New("/nonexistent/GeoLite2-Country.mmdb")
	if err == nil {
		t.Fatal("expected error for missing database file")
	}
	if g.IsEnabled() {
		t.Error("lookup should stay disabled when the database is missing")
	}
}

func TestLookupCountryWithoutDatabase(t *testing.T) {
	g, _ := New("")

	tests := []struct {
		name string
		ip   string
		want string
	}{
		{"loopback", "127.0.0.1", "LOCAL"},
		{"ipv6 loopback", "::1", "LOCAL"},
		{"private 10", "10.1.2.3", "LOCAL"},
		{"private 172", "172.16.0.1", "LOCAL"},
		{"private 192", "192.168.1.50", "LOCAL"},
		{"ipv6 unique local", "fc00::1", "LOCAL"},
		{"public without db", "8.8.8.8", ""},
		{"invalid", "not-an-ip", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.LookupCountry(tt.ip); got != tt.want {
				t.Errorf("LookupCountry(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}
}
