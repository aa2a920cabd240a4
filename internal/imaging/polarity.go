package imaging

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// borderFraction is the share of each side sampled as tag background.
const borderFraction = 0.08

// maxSamples bounds the pixels read per side when estimating lightness.
const maxSamples = 256

// DarkBackground reports whether a photo shows light text on a dark tag.
//
// The tag background dominates the border of a photo cropped to the tag, so
// the mean CIE L* lightness of a band along each edge is taken as background
// lightness. Below 0.5 the image is treated as inverted.
func DarkBackground(img image.Image) bool {
	l, ok := BorderLightness(img)
	return ok && l < 0.5
}

// BorderLightness returns the mean CIE L* (0..1) of the image border. It
// reports false for an empty or fully transparent image.
func BorderLightness(img image.Image) (float64, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0, false
	}
	bw := max(1, int(float64(w)*borderFraction))
	bh := max(1, int(float64(h)*borderFraction))

	bands := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+bh),
		image.Rect(b.Min.X, b.Max.Y-bh, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+bw, b.Max.Y),
		image.Rect(b.Max.X-bw, b.Min.Y, b.Max.X, b.Max.Y),
	}

	var sum float64
	var n int
	for _, r := range bands {
		s, c := sampleLightness(img, r)
		sum += s
		n += c
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// sampleLightness sums L* over an evenly spaced grid of pixels in r.
func sampleLightness(img image.Image, r image.Rectangle) (float64, int) {
	area := r.Dx() * r.Dy()
	if area <= 0 {
		return 0, 0
	}
	step := 1
	for area/(step*step) > maxSamples {
		step++
	}

	var sum float64
	var n int
	for y := r.Min.Y; y < r.Max.Y; y += step {
		for x := r.Min.X; x < r.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	return sum, n
}
