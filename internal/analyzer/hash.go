package analyzer

import (
	"fmt"
	"math/bits"

	apperrors "phototriage/internal/errors"
)

// The difference hash reads a 9x8 grayscale grid: 8 rows of 8 left/right
// comparisons give 64 bits, serialized as 16 lowercase hex characters.
const (
	HashGridWidth  = 9
	HashGridHeight = 8

	// FingerprintHexLen is the length of a serialized fingerprint.
	FingerprintHexLen = 16
)

const hexDigits = "0123456789abcdef"

// DifferenceHash computes the perceptual fingerprint of a 9x8 grayscale
// grid. For each row, each of the first 8 columns is compared against its
// right neighbor; the bit is 1 when the left pixel is strictly brighter.
// Bits are produced row-major, left to right, and packed MSB-first into
// nibbles. The grid must be exactly 9x8.
func DifferenceHash(grid *LumaBuffer) (string, error) {
	if grid.Width != HashGridWidth || grid.Height != HashGridHeight {
		return "", apperrors.NewDegenerateInputError(
			fmt.Sprintf("difference hash requires a %dx%d grid, got %dx%d", HashGridWidth, HashGridHeight, grid.Width, grid.Height), nil)
	}

	out := make([]byte, 0, FingerprintHexLen)
	var nibble byte
	nibbleBits := 0

	for y := 0; y < HashGridHeight; y++ {
		for x := 0; x < HashGridWidth-1; x++ {
			nibble <<= 1
			if grid.At(x, y) > grid.At(x+1, y) {
				nibble |= 1
			}
			nibbleBits++
			if nibbleBits == 4 {
				out = append(out, hexDigits[nibble])
				nibble, nibbleBits = 0, 0
			}
		}
	}

	return string(out), nil
}

// HammingDistance counts the differing bits between two hex fingerprints
// by XOR-ing corresponding digits and popcounting each nibble. Fingerprints
// of different length are a contract violation, rejected rather than
// truncated.
func HammingDistance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, apperrors.NewDegenerateInputError(
			fmt.Sprintf("fingerprint length mismatch: %d vs %d", len(a), len(b)), nil)
	}

	dist := 0
	for i := 0; i < len(a); i++ {
		va, okA := hexNibble(a[i])
		vb, okB := hexNibble(b[i])
		if !okA || !okB {
			return 0, apperrors.NewDegenerateInputError("fingerprint contains a non-hex digit", nil)
		}
		dist += bits.OnesCount8(va ^ vb)
	}
	return dist, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
