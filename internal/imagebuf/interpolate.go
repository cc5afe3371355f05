package imagebuf

import "math"

// Interpolate samples the image at fractional coordinates (fx, fy) using
// bilinear interpolation. The enclosing pixel (floor(fx), floor(fy)) and
// its +1 neighbors are clamped into [0, Width-1] x [0, Height-1] before
// sampling, so Interpolate never fails and never indexes out of bounds —
// points outside the image are clamped to the nearest edge pixel. At
// exact integer coordinates it returns that pixel's value exactly.
func (img *Image) Interpolate(fx, fy float64) float64 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))

	x0 = clampInt(x0, 0, img.Width-1)
	y0 = clampInt(y0, 0, img.Height-1)
	x1 := clampInt(x0+1, 0, img.Width-1)
	y1 := clampInt(y0+1, 0, img.Height-1)

	tx := fx - math.Floor(fx)
	ty := fy - math.Floor(fy)
	if x1 == x0 || fx < 0 {
		tx = 0
	}
	if y1 == y0 || fy < 0 {
		ty = 0
	}

	v00 := float64(img.At(x0, y0))
	v10 := float64(img.At(x1, y0))
	v01 := float64(img.At(x0, y1))
	v11 := float64(img.At(x1, y1))

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
