package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestWriteAndRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	key, err := store.Write(context.Background(), "/posters/u/r/poster-01.jpg", []byte("jpeg"))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if key != "posters/u/r/poster-01.jpg" {
		t.Fatalf("key = %q", key)
	}
	data, err := store.Read(context.Background(), key)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if !bytes.Equal(data, []byte("jpeg")) {
		t.Fatalf("data = %q", data)
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	for _, key := range []string{"", "..", "../etc/passwd", "a/../../b"} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("sanitizeKey(%q) expected error", key)
		}
	}
}

func TestPosterKey(t *testing.T) {
	tests := []struct {
		owner, request string
		index          int
		mime           string
		want           string
	}{
		{"user-1", "req-1", 0, "image/jpeg", "posters/user-1/req-1/poster-01.jpg"},
		{"", "req-2", 2, "image/png", "posters/anonymous/req-2/poster-03.png"},
		{"user-1", "req-3", -1, "application/octet-stream", "posters/user-1/req-3/poster-01.bin"},
	}
	for _, tc := range tests {
		if got := PosterKey(tc.owner, tc.request, tc.index, tc.mime); got != tc.want {
			t.Fatalf("PosterKey(%q, %q, %d, %q) = %q, want %q", tc.owner, tc.request, tc.index, tc.mime, got, tc.want)
		}
	}
}
