package validation

import (
	"phototriage/pkg/models"
)

// Thresholds defines the calibration constants the classifier applies.
// These values are tuned against the blur score mapping and must not be
// changed without re-validating existing reports.
type Thresholds struct {
	// Images scoring strictly below this are flagged blurry.
	MinBlurScore float64

	// Resolution: an image is low-resolution when its shorter side is
	// below MinDimension or its pixel count is below MinMegapixels.
	MinDimension  int
	MinMegapixels float64

	// Fraction of pixels in a histogram tail above which the image is
	// flagged over- or underexposed.
	MaxExposureTailFraction float64

	// Maximum Hamming distance (bits out of 64) for two fingerprints to
	// count as near-duplicates.
	MaxDuplicateDistance int
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinBlurScore:            35.0,
		MinDimension:            800,
		MinMegapixels:           1.0,
		MaxExposureTailFraction: 0.25,
		MaxDuplicateDistance:    5,
	}
}

// FlagClassifier turns the numeric measurements on an ImageRecord into
// categorical flags.
type FlagClassifier struct {
	thresholds Thresholds
}

// NewFlagClassifier creates a classifier with the default thresholds.
func NewFlagClassifier() *FlagClassifier {
	return &FlagClassifier{thresholds: DefaultThresholds()}
}

// NewFlagClassifierWithThresholds creates a classifier with custom thresholds.
func NewFlagClassifierWithThresholds(thresholds Thresholds) *FlagClassifier {
	return &FlagClassifier{thresholds: thresholds}
}

// Thresholds returns the thresholds the classifier applies.
func (fc *FlagClassifier) Thresholds() Thresholds {
	return fc.thresholds
}

// Classify evaluates the per-image rules and returns the flags in a fixed
// order: blurry, low-resolution, overexposed, underexposed. Flags are
// additive; an image may carry any subset including none. The duplicate
// flag is assigned by the batch pass, never here.
func (fc *FlagClassifier) Classify(rec models.ImageRecord) []string {
	var flags []string

	if rec.BlurScore < fc.thresholds.MinBlurScore {
		flags = append(flags, models.FlagBlurry)
	}

	minDim := rec.Width
	if rec.Height < minDim {
		minDim = rec.Height
	}
	if minDim < fc.thresholds.MinDimension || rec.Megapixels < fc.thresholds.MinMegapixels {
		flags = append(flags, models.FlagLowResolution)
	}

	if rec.Exposure.OverexposedFraction > fc.thresholds.MaxExposureTailFraction {
		flags = append(flags, models.FlagOverexposed)
	}
	if rec.Exposure.UnderexposedFraction > fc.thresholds.MaxExposureTailFraction {
		flags = append(flags, models.FlagUnderexposed)
	}

	return flags
}
