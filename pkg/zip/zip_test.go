package zip

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestArchiveAssets(t *testing.T) {
	archive, err := ArchiveAssets([]Asset{
		{Filename: "poster.jpg", Data: []byte("one")},
		{Filename: "poster.jpg", Data: []byte("two")},
		{Filename: "empty.jpg"},
		{Filename: "../escape.png", Data: []byte("three")},
	})
	if err != nil {
		t.Fatalf("ArchiveAssets error: %v", err)
	}
	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	want := []string{"poster.jpg", "poster-2.jpg", "escape.png"}
	if len(r.File) != len(want) {
		t.Fatalf("entries = %d, want %d", len(r.File), len(want))
	}
	for i, f := range r.File {
		if f.Name != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, f.Name, want[i])
		}
	}
}
