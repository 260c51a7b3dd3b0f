package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func TestIsImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "photo.jpg", want: true},
		{path: "photo.JPEG", want: true},
		{path: "photo.png", want: true},
		{path: "anim.gif", want: true},
		{path: "web.webp", want: true},
		{path: "scan.tiff", want: false},
		{path: "notes.txt", want: false},
		{path: "noextension", want: false},
	}

	for _, tc := range tests {
		if got := IsImagePath(tc.path); got != tc.want {
			t.Errorf("IsImagePath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.jpg")
	writeFile(t, path, []byte("fake image bytes"))

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource returned error: %v", err)
	}

	if src.Name() != "pic.jpg" {
		t.Errorf("Name = %q, want pic.jpg", src.Name())
	}
	if src.Size() != 16 {
		t.Errorf("Size = %d, want 16", src.Size())
	}

	data, err := src.Bytes(context.Background())
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("Bytes = %q, want original content", data)
	}
}

func TestNewFileSource_Rejections(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewFileSource(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := NewFileSource(dir); err == nil {
		t.Error("expected error for directory path")
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "album", "a.jpg"), []byte("a"))
	writeFile(t, filepath.Join(dir, "album", "b.png"), []byte("b"))
	writeFile(t, filepath.Join(dir, "album", "notes.txt"), []byte("skip"))
	writeFile(t, filepath.Join(dir, "album", "nested", "c.webp"), []byte("c"))
	writeFile(t, filepath.Join(dir, "single.gif"), []byte("d"))

	sources, err := CollectFiles([]string{
		filepath.Join(dir, "single.gif"),
		filepath.Join(dir, "album"),
	})
	if err != nil {
		t.Fatalf("CollectFiles returned error: %v", err)
	}

	var names []string
	for _, s := range sources {
		names = append(names, s.Name())
	}
	want := []string{"single.gif", "a.jpg", "b.png", "c.webp"}
	if len(names) != len(want) {
		t.Fatalf("collected %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestCollectFiles_ExplicitFileBypassesExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.dat")
	writeFile(t, path, []byte("raw"))

	sources, err := CollectFiles([]string{path})
	if err != nil {
		t.Fatalf("CollectFiles returned error: %v", err)
	}
	if len(sources) != 1 || sources[0].Name() != "photo.dat" {
		t.Errorf("explicit file should be accepted as-is, got %v", sources)
	}
}

func TestCollectFiles_MissingPath(t *testing.T) {
	if _, err := CollectFiles([]string{"/does/not/exist"}); err == nil {
		t.Error("expected error for missing path")
	}
}
