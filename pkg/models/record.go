package models

// Flag labels assigned to an image. blurry through underexposed come from
// the per-image classifier; duplicate is assigned only by the batch pass.
const (
	FlagBlurry        = "blurry"
	FlagLowResolution = "low-resolution"
	FlagOverexposed   = "overexposed"
	FlagUnderexposed  = "underexposed"
	FlagDuplicate     = "duplicate"
)

// ExposureStats holds the fraction of pixels in the near-black and
// near-white tails of the brightness histogram. Both values are in [0,1]
// and their sum never exceeds 1.
type ExposureStats struct {
	OverexposedFraction  float64 `json:"overexposed_fraction"`
	UnderexposedFraction float64 `json:"underexposed_fraction"`
}

// CaptureMeta carries optional camera metadata read from the image file.
// A nil *CaptureMeta on a record means no usable EXIF was found, which is
// a normal condition rather than an error.
type CaptureMeta struct {
	Make     string `json:"make,omitempty"`
	Model    string `json:"model,omitempty"`
	DateTime string `json:"datetime,omitempty"`
}

// ImageRecord is the per-image result of the analysis pipeline. It is
// created once per input image; the batch duplicate pass may append the
// duplicate flag afterwards, and the record is immutable once the batch
// completes.
type ImageRecord struct {
	Name         string        `json:"name"`
	SizeBytes    int64         `json:"size_bytes"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Megapixels   float64       `json:"megapixels"`
	AspectRatio  float64       `json:"aspect_ratio"`
	BlurVariance float64       `json:"blur_variance"`
	BlurScore    float64       `json:"blur_score"`
	Exposure     ExposureStats `json:"exposure"`
	Capture      *CaptureMeta  `json:"capture,omitempty"`
	HashHex      string        `json:"hash_hex"`
	Flags        []string      `json:"flags"`
}

// AddFlag appends flag unless the record already carries it. Assignment
// order is preserved for display and export.
func (r *ImageRecord) AddFlag(flag string) {
	if r.HasFlag(flag) {
		return
	}
	r.Flags = append(r.Flags, flag)
}

// HasFlag reports whether the record carries flag.
func (r *ImageRecord) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
