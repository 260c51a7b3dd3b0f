package analyzer

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Calibration constants for the variance-to-score mapping. The log10
// compresses the unbounded variance domain; the divisor and scale are
// tuned together with the classifier's blur threshold and must be
// reproduced exactly.
const (
	blurScoreLogDivisor = 3.0
	blurScoreScale      = 100.0
)

// LaplacianVariance convolves the buffer with the discrete Laplacian kernel
//
//	0  1  0
//	1 -4  1
//	0  1  0
//
// over interior pixels only and returns the population variance of the
// response. The 1-pixel border is excluded both from the convolution and
// from the variance. A buffer smaller than 3x3 has no interior pixels and
// yields 0, a fully degenerate, maximally blurred reading.
func LaplacianVariance(l *LumaBuffer) float64 {
	if l.Width < 3 || l.Height < 3 {
		return 0
	}

	response := make([]float64, 0, (l.Width-2)*(l.Height-2))
	for y := 1; y < l.Height-1; y++ {
		for x := 1; x < l.Width-1; x++ {
			v := l.At(x, y-1) + l.At(x, y+1) + l.At(x-1, y) + l.At(x+1, y) - 4*l.At(x, y)
			response = append(response, v)
		}
	}

	return stat.PopVariance(response, nil)
}

// BlurScore maps a Laplacian variance onto [0,100]; higher means sharper.
func BlurScore(variance float64) float64 {
	score := math.Log10(variance+1) / blurScoreLogDivisor * blurScoreScale
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
