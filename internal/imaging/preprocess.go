package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// PrepareOptions controls how a tag photo is cleaned up before OCR.
type PrepareOptions struct {
	// MinHeight upscales photos shorter than this so glyphs have enough
	// pixels for Tesseract. Zero disables upscaling.
	MinHeight int

	// MaxSide downscales photos whose longer side exceeds this. Zero
	// disables downscaling.
	MaxSide int

	// Contrast is the relative contrast change in -1..1.
	Contrast float64

	// Binarize thresholds the result to pure black and white at the Otsu
	// level of the grayscale histogram.
	Binarize bool
}

// DefaultPrepareOptions returns settings tuned for phone photos of printed
// inventory tags.
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		MinHeight: 600,
		MaxSide:   2400,
		Contrast:  0.3,
		Binarize:  true,
	}
}

// Prepare converts a tag photo to dark text on a light background for OCR:
// resize, grayscale, invert light-on-dark tags, boost contrast and
// optionally binarize.
func Prepare(img image.Image, opts PrepareOptions) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	var out image.Image = img
	switch {
	case opts.MaxSide > 0 && (w > opts.MaxSide || h > opts.MaxSide):
		out = imaging.Fit(out, opts.MaxSide, opts.MaxSide, imaging.Lanczos)
	case opts.MinHeight > 0 && h < opts.MinHeight:
		scale := float64(opts.MinHeight) / float64(h)
		out = imaging.Resize(out, int(float64(w)*scale), opts.MinHeight, imaging.Lanczos)
	}

	out = effect.Grayscale(out)
	if DarkBackground(out) {
		out = effect.Invert(out)
	}
	if opts.Contrast != 0 {
		out = adjust.Contrast(out, opts.Contrast)
	}
	if opts.Binarize {
		out = segment.Threshold(out, OtsuLevel(out))
	}
	return out
}

// OtsuLevel returns the gray level that best separates ink from paper,
// maximizing between-class variance of the luminance histogram.
func OtsuLevel(img image.Image) uint8 {
	bins := luminanceBins(img)

	var total, sum float64
	for i, n := range bins {
		total += float64(n)
		sum += float64(i) * float64(n)
	}
	if total == 0 {
		return 128
	}

	var (
		wB, sumB float64
		best     float64
		level    int
	)
	for t, n := range bins {
		wB += float64(n)
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(n)
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			level = t
		}
	}
	// segment.Threshold maps values >= level to white.
	return uint8(level + 1)
}

// luminanceBins returns a 256-bin histogram of the red channel, which equals
// luminance for grayscale input.
func luminanceBins(img image.Image) []int {
	hist := histogram.NewRGBAHistogram(img)
	bins := make([]int, 256)
	copy(bins, hist.R.Bins)
	return bins
}
