package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Rotate turns img counter-clockwise by deg, which must be 0, 90, 180 or 270.
func Rotate(img image.Image, deg int) (image.Image, error) {
	switch deg {
	case 0:
		return img, nil
	case 90:
		return imaging.Rotate90(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate270(img), nil
	}
	return nil, fmt.Errorf("unsupported rotation %d: want 0, 90, 180 or 270", deg)
}

// ValidRotation reports whether Rotate accepts deg.
func ValidRotation(deg int) bool {
	return deg == 0 || deg == 90 || deg == 180 || deg == 270
}

// RankRotations orders candidate rotations so the likeliest is tried first.
//
// Horizontal text lines make the per-row ink profile of an upright (or
// upside-down) tag far more uneven than its per-column profile. When the
// column profile is the uneven one the text runs vertically, and quarter
// turns move ahead of 0 and 180. Relative order within each group is kept.
func RankRotations(img image.Image, candidates []int) []int {
	rows, cols := inkProfiles(img)
	vertical := variance(cols) > variance(rows)

	out := make([]int, 0, len(candidates))
	var rest []int
	for _, deg := range candidates {
		quarter := deg == 90 || deg == 270
		if quarter == vertical {
			out = append(out, deg)
		} else {
			rest = append(rest, deg)
		}
	}
	return append(out, rest...)
}

// inkProfiles returns the dark-pixel fraction per row and per column of a
// downsampled grayscale copy.
func inkProfiles(img image.Image) (rows, cols []float64) {
	small := imaging.Grayscale(imaging.Fit(img, 400, 400, imaging.Box))
	b := small.Bounds()
	rows = make([]float64, b.Dy())
	cols = make([]float64, b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(small.At(x, y)).(color.Gray)
			if g.Y < 128 {
				rows[y-b.Min.Y]++
				cols[x-b.Min.X]++
			}
		}
	}
	for i := range rows {
		rows[i] /= float64(b.Dx())
	}
	for i := range cols {
		cols[i] /= float64(b.Dy())
	}
	return rows, cols
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var v float64
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return v / float64(len(xs))
}
