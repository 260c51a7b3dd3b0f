package analyzer

import (
	"math"

	apperrors "phototriage/internal/errors"
	"phototriage/pkg/models"
)

const (
	histogramBins = 256

	// Histogram tails: bins 0-5 count as near-black, 250-255 as near-white.
	underexposedMaxBin = 5
	overexposedMinBin  = 250
)

// AnalyzeExposure builds a 256-bin histogram of rounded luma values and
// returns the fraction of pixels in each tail. A zero-pixel buffer is a
// caller error, not analyzed.
func AnalyzeExposure(l *LumaBuffer) (models.ExposureStats, error) {
	total := l.Width * l.Height
	if total == 0 {
		return models.ExposureStats{}, apperrors.NewDegenerateInputError("exposure analysis requires at least one pixel", nil)
	}

	var hist [histogramBins]int
	for _, v := range l.Pix {
		bin := int(math.Round(v))
		if bin < 0 {
			bin = 0
		} else if bin > histogramBins-1 {
			bin = histogramBins - 1
		}
		hist[bin]++
	}

	var under, over int
	for b := 0; b <= underexposedMaxBin; b++ {
		under += hist[b]
	}
	for b := overexposedMinBin; b < histogramBins; b++ {
		over += hist[b]
	}

	return models.ExposureStats{
		OverexposedFraction:  float64(over) / float64(total),
		UnderexposedFraction: float64(under) / float64(total),
	}, nil
}
