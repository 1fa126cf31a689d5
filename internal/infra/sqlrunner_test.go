package infra

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestExtractMarker(t *testing.T) {
	query := "--sql 7c1f4d1e-2b6a-4f0e-9a53-0d8c6e4b91a2\nselect 1;\n"
	marker, body, err := extractMarker(query)
	if err != nil {
		t.Fatalf("extractMarker returned error: %v", err)
	}
	if marker != "7c1f4d1e-2b6a-4f0e-9a53-0d8c6e4b91a2" {
		t.Fatalf("marker = %q", marker)
	}
	if body != "select 1;" {
		t.Fatalf("body = %q, want %q", body, "select 1;")
	}
}

func TestExtractMarkerRejectsUnmarkedQuery(t *testing.T) {
	if _, _, err := extractMarker("select 1;"); err == nil {
		t.Fatalf("expected error for query without marker")
	}
	if _, _, err := extractMarker("--sql not-a-uuid\nselect 1;"); err == nil {
		t.Fatalf("expected error for malformed marker")
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(pgx.ErrNoRows) {
		t.Fatalf("IsNoRows(pgx.ErrNoRows) = false")
	}
	if !IsNoRows(fmt.Errorf("load job: %w", pgx.ErrNoRows)) {
		t.Fatalf("IsNoRows should unwrap")
	}
	if IsNoRows(errors.New("boom")) {
		t.Fatalf("IsNoRows(boom) = true")
	}
}
