package analyzer

import (
	"image"
	"image/color"
	"testing"
)

func flatImage(width, height int, c color.Gray) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// gradientImage darkens left to right so every hash bit lands as 1.
func gradientImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 - x*255/(width-1))
			img.Set(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestAnalyze_FlatImage(t *testing.T) {
	a := NewImageAnalyzer(0)

	got, err := a.Analyze(flatImage(64, 48, color.Gray{Y: 128}))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if got.BlurVariance != 0 {
		t.Errorf("flat image variance = %v, want 0", got.BlurVariance)
	}
	if got.BlurScore != 0 {
		t.Errorf("flat image blur score = %v, want 0", got.BlurScore)
	}
	if got.Exposure.OverexposedFraction != 0 || got.Exposure.UnderexposedFraction != 0 {
		t.Errorf("midtone image exposure tails = %+v, want zero", got.Exposure)
	}
	if got.HashHex != "0000000000000000" {
		t.Errorf("flat image hash = %q, want all zero nibbles", got.HashHex)
	}
}

func TestAnalyze_GradientHash(t *testing.T) {
	a := NewImageAnalyzer(0)

	got, err := a.Analyze(gradientImage(90, 80))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(got.HashHex) != FingerprintHexLen {
		t.Fatalf("hash length = %d, want %d", len(got.HashHex), FingerprintHexLen)
	}
	if got.HashHex != "ffffffffffffffff" {
		t.Errorf("gradient hash = %q, want all set bits", got.HashHex)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewImageAnalyzer(256)
	img := gradientImage(320, 240)

	first, err := a.Analyze(img)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	second, err := a.Analyze(img)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if first != second {
		t.Errorf("repeated analysis differs: %+v vs %+v", first, second)
	}
}

func TestAnalyze_ExposureExtremes(t *testing.T) {
	a := NewImageAnalyzer(0)

	dark, err := a.Analyze(flatImage(32, 32, color.Gray{Y: 0}))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if dark.Exposure.UnderexposedFraction != 1 {
		t.Errorf("black image under fraction = %v, want 1", dark.Exposure.UnderexposedFraction)
	}

	bright, err := a.Analyze(flatImage(32, 32, color.Gray{Y: 255}))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if bright.Exposure.OverexposedFraction != 1 {
		t.Errorf("white image over fraction = %v, want 1", bright.Exposure.OverexposedFraction)
	}
}
