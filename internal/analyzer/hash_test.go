package analyzer

import (
	"strings"
	"testing"

	apperrors "phototriage/internal/errors"
)

// hashGrid builds a 9x8 buffer whose rows all follow the given 9 values.
func hashGrid(row [HashGridWidth]float64) *LumaBuffer {
	grid := NewLumaBuffer(HashGridWidth, HashGridHeight)
	for y := 0; y < HashGridHeight; y++ {
		for x := 0; x < HashGridWidth; x++ {
			grid.Set(x, y, row[x])
		}
	}
	return grid
}

func TestDifferenceHash_KnownGrids(t *testing.T) {
	tests := []struct {
		name string
		row  [HashGridWidth]float64
		want string
	}{
		{
			name: "alternating bright and dark",
			row:  [HashGridWidth]float64{1, 0, 1, 0, 1, 0, 1, 0, 1},
			want: "aaaaaaaaaaaaaaaa",
		},
		{
			name: "strictly decreasing row",
			row:  [HashGridWidth]float64{8, 7, 6, 5, 4, 3, 2, 1, 0},
			want: "ffffffffffffffff",
		},
		{
			name: "strictly increasing row",
			row:  [HashGridWidth]float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
			want: "0000000000000000",
		},
		{
			name: "constant row compares as not brighter",
			row:  [HashGridWidth]float64{50, 50, 50, 50, 50, 50, 50, 50, 50},
			want: "0000000000000000",
		},
		{
			name: "single step down in each row",
			row:  [HashGridWidth]float64{9, 0, 0, 0, 0, 0, 0, 0, 0},
			want: "8080808080808080",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DifferenceHash(hashGrid(tc.row))
			if err != nil {
				t.Fatalf("DifferenceHash returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("hash = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDifferenceHash_RowMajorOrder(t *testing.T) {
	// Only the top row produces set bits, so only the first two hex digits
	// should be non-zero.
	grid := NewLumaBuffer(HashGridWidth, HashGridHeight)
	for x := 0; x < HashGridWidth; x++ {
		grid.Set(x, 0, float64(HashGridWidth-x))
	}

	got, err := DifferenceHash(grid)
	if err != nil {
		t.Fatalf("DifferenceHash returned error: %v", err)
	}
	if got != "ff00000000000000" {
		t.Errorf("hash = %q, want %q", got, "ff00000000000000")
	}
}

func TestDifferenceHash_WrongGridSize(t *testing.T) {
	for _, buf := range []*LumaBuffer{
		NewLumaBuffer(8, 8),
		NewLumaBuffer(9, 9),
		NewLumaBuffer(0, 0),
	} {
		_, err := DifferenceHash(buf)
		if err == nil {
			t.Errorf("expected error for %dx%d grid", buf.Width, buf.Height)
			continue
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeDegenerate) {
			t.Errorf("error type for %dx%d grid = %v, want degenerate input", buf.Width, buf.Height, err)
		}
	}
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "0f0f0f0f0f0f0f0f", b: "0f0f0f0f0f0f0f0f", want: 0},
		{name: "one bit apart", a: "0f0f0f0f0f0f0f0f", b: "0f0f0f0f0f0f0f0e", want: 1},
		{name: "all bits differ", a: strings.Repeat("0", 16), b: strings.Repeat("f", 16), want: 64},
		{name: "uppercase digits accepted", a: "ABCDEF0123456789", b: "abcdef0123456789", want: 0},
		{name: "single nibble", a: "a", b: "5", want: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HammingDistance(tc.a, tc.b)
			if err != nil {
				t.Fatalf("HammingDistance returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("distance = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestHammingDistance_Rejections(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{name: "length mismatch", a: "0f0f", b: "0f0f0f"},
		{name: "non-hex digit", a: "zf0f0f0f0f0f0f0f", b: "0f0f0f0f0f0f0f0f"},
		{name: "non-hex in second argument", a: "0f0f0f0f0f0f0f0f", b: "0f0f0f0f0f0f0f0g"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := HammingDistance(tc.a, tc.b)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeDegenerate) {
				t.Errorf("error type = %v, want degenerate input", err)
			}
		})
	}
}
