package analyzer

import (
	"image"

	"phototriage/internal/imaging"
	"phototriage/pkg/models"
)

// DefaultMaxAnalysisDimension caps the longer side of the buffer used for
// sharpness and exposure, bounding cost and stabilizing the blur score
// across source resolutions.
const DefaultMaxAnalysisDimension = 512

// Analysis holds the per-image measurements produced by the pixel pipeline.
type Analysis struct {
	BlurVariance float64
	BlurScore    float64
	Exposure     models.ExposureStats
	HashHex      string
}

// ImageAnalyzer runs the full pixel-analysis pipeline over one decoded
// image. Implementations are pure over the pixel data and safe for
// concurrent use across images.
type ImageAnalyzer interface {
	Analyze(img image.Image) (Analysis, error)
}

type coreAnalyzer struct {
	maxAnalysisDim int
}

// NewImageAnalyzer creates an analyzer. maxAnalysisDim bounds the longer
// side of the analysis buffer; values <= 0 use the default cap of 512.
func NewImageAnalyzer(maxAnalysisDim int) ImageAnalyzer {
	if maxAnalysisDim <= 0 {
		maxAnalysisDim = DefaultMaxAnalysisDimension
	}
	return &coreAnalyzer{maxAnalysisDim: maxAnalysisDim}
}

// Analyze measures sharpness, exposure and the perceptual fingerprint.
// Sharpness and exposure share one resolution-capped luma buffer so their
// readings stay consistent; the hash grid is reduced from the source image
// on a separate path so resize artifacts do not compound.
func (ca *coreAnalyzer) Analyze(img image.Image) (Analysis, error) {
	luma := Luma(imaging.FitWithin(img, ca.maxAnalysisDim))

	variance := LaplacianVariance(luma)

	exposure, err := AnalyzeExposure(luma)
	if err != nil {
		return Analysis{}, err
	}

	hash, err := DifferenceHash(Luma(imaging.Resize(img, HashGridWidth, HashGridHeight)))
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		BlurVariance: variance,
		BlurScore:    BlurScore(variance),
		Exposure:     exposure,
		HashHex:      hash,
	}, nil
}
