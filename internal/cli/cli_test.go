package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phototriage/internal/store"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.Gray{Y: uint8(x * 10)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out.String()
}

func TestAnalyzeCommand_WritesReport(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "shot.png")
	writePNG(t, imgPath)

	out := runCommand(t, "analyze", imgPath)

	if !strings.HasPrefix(out, "name,size_bytes,") {
		t.Errorf("output should start with the CSV header, got %q", out)
	}
	if !strings.Contains(out, "shot.png") {
		t.Errorf("output should contain the image row, got %q", out)
	}
}

func TestAnalyzeCommand_SaveFlagPersistsBatch(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "kept.png")
	writePNG(t, imgPath)
	dbPath := filepath.Join(dir, "history.db")

	runCommand(t, "analyze", "--save", dbPath, imgPath)

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("opening history db: %v", err)
	}
	defer s.Close()

	batches, err := s.ListBatches(context.Background())
	if err != nil {
		t.Fatalf("ListBatches returned error: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("got %d stored batches, want 1", len(batches))
	}

	records, err := s.LoadBatch(context.Background(), batches[0].ID)
	if err != nil {
		t.Fatalf("LoadBatch returned error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "kept.png" {
		t.Errorf("stored records = %+v, want the analyzed image", records)
	}
}

func TestAnalyzeCommand_NoImages(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"analyze", t.TempDir()})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when no images are found")
	}
}

func TestVersionCommand(t *testing.T) {
	out := runCommand(t, "version")
	if !strings.Contains(out, "phototriage") {
		t.Errorf("version output = %q", out)
	}
}
