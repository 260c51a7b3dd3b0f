package analyzer

import "image"

// LumaBuffer is a width x height array of real-valued brightness samples,
// one per pixel, stored row-major. It is owned by the computation that
// created it and is never retained across analysis calls.
type LumaBuffer struct {
	Width  int
	Height int
	Pix    []float64
}

// NewLumaBuffer allocates a zeroed buffer.
func NewLumaBuffer(width, height int) *LumaBuffer {
	return &LumaBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// At returns the brightness sample at (x, y). No bounds checking beyond
// the slice's own.
func (l *LumaBuffer) At(x, y int) float64 {
	return l.Pix[y*l.Width+x]
}

// Set stores a brightness sample at (x, y).
func (l *LumaBuffer) Set(x, y int, v float64) {
	l.Pix[y*l.Width+x] = v
}

// Luma converts an image to a single-channel brightness buffer using the
// ITU-R BT.601 weighted sum 0.299 R + 0.587 G + 0.114 B over 8-bit channel
// values. The result is kept in floating point, no rounding.
func Luma(img image.Image) *LumaBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := NewLumaBuffer(w, h)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels; shift back to 8-bit.
			buf.Pix[i] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			i++
		}
	}
	return buf
}
