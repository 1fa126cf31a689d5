package geoip

import (
	"errors"
	"testing"
)

func TestNewResolverEmptyPath(t *testing.T) {
	r, err := NewResolver("  ")
	if err != nil {
		t.Fatalf("NewResolver error: %v", err)
	}
	if r != nil {
		t.Fatalf("expected nil resolver for empty path")
	}
	if r.Lookup() != nil {
		t.Fatalf("expected nil lookup for nil resolver")
	}
	if _, err := r.CountryCode("203.0.113.4"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("CountryCode error = %v, want ErrUnavailable", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

func TestNewResolverMissingFile(t *testing.T) {
	if _, err := NewResolver("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Fatalf("expected error for missing database")
	}
}
