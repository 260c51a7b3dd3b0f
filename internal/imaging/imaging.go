// Package imaging is the pixel-buffer adapter: it decodes container
// formats and produces the fixed-size reductions the analysis core reads.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Decode turns raw image bytes into a decoded image at native resolution.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// Resize scales img to exactly width x height.
func Resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// FitWithin scales img down so its longer side is at most max, preserving
// aspect ratio. Images already within the cap are returned unchanged.
func FitWithin(img image.Image, max int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= max && h <= max {
		return img
	}

	if w >= h {
		h = h * max / w
		if h < 1 {
			h = 1
		}
		w = max
	} else {
		w = w * max / h
		if w < 1 {
			w = 1
		}
		h = max
	}
	return Resize(img, w, h)
}
