// Package decode implements the tag decoder (spec.md §4.L): gray-model
// illumination compensation, polarity checking, bilinear bit sampling,
// boundary-aware Laplacian sharpening, and code extraction with decision
// margin, followed by a rotation-aware match against a family's
// quick-decode index.
package decode

import (
	"github.com/benlenarts/apriltag-go/internal/family"
	"github.com/benlenarts/apriltag-go/internal/homography"
	"github.com/benlenarts/apriltag-go/internal/imagebuf"
	"github.com/benlenarts/apriltag-go/internal/numeric"
)

// Result is a successful decode: the matched codeword, Hamming distance,
// decision margin, and the rotation (in 90-degree steps) that must be
// applied to the quad's corners to reach the canonical orientation.
type Result struct {
	CodeIndex      int
	Hamming        int
	DecisionMargin float64
	Rotation       int
}

const samplesPerEdge = 8

// grayModel is a fitted affine illumination model I(x,y) = c0*x + c1*y + c2.
type grayModel struct {
	c0, c1, c2 float64
}

func (g grayModel) eval(x, y float64) float64 { return g.c0*x + g.c1*y + g.c2 }

// fitGrayModel fits an affine model to samples via the normal equations,
// solved with the 3x3 inverse (spec.md §4.L).
func fitGrayModel(xs, ys, vals []float64) grayModel {
	var sxx, sxy, sx, syy, sy, n float64
	var sxv, syv, sv float64
	for i := range xs {
		x, y, v := xs[i], ys[i], vals[i]
		sxx += x * x
		sxy += x * y
		sx += x
		syy += y * y
		sy += y
		n++
		sxv += x * v
		syv += y * v
		sv += v
	}
	a := numeric.Mat3{
		sxx, sxy, sx,
		sxy, syy, sy,
		sx, sy, n,
	}
	b := [3]float64{sxv, syv, sv}
	inv, ok := a.Inverse()
	if !ok {
		return grayModel{}
	}
	c := inv.MulVec(b)
	return grayModel{c0: c[0], c1: c[1], c2: c[2]}
}

// borderSamplePoints returns tag-space (x, y) points along the four
// edges of the tag at the given offset-from-center (in tag-space units),
// spec.md §4.L's "8 straight lines along tag border" (4 edges, sampled
// at both a white offset and a black offset by the caller).
func borderSamplePoints(offset, extent float64) (xs, ys []float64) {
	for i := 0; i < samplesPerEdge; i++ {
		t := -extent + 2*extent*float64(i)/float64(samplesPerEdge-1)
		xs = append(xs, t, t, -offset, offset)
		ys = append(ys, -offset, offset, t, t)
	}
	return xs, ys
}

// sampleGrayModels samples the white (outside border) and black (inside
// border) rings and fits an affine model to each.
func sampleGrayModels(img *imagebuf.Image, h numeric.Mat3, f *family.Family) (white, black grayModel) {
	halfWidthAtBorder := float64(f.WidthAtBorder) / 2
	unitsPerCell := 2.0 / float64(f.TotalWidth)
	whiteOffset := (halfWidthAtBorder + 0.5) * unitsPerCell
	blackOffset := (halfWidthAtBorder - 0.5) * unitsPerCell
	extent := halfWidthAtBorder * unitsPerCell

	wxs, wys := borderSamplePoints(whiteOffset, extent)
	bxs, bys := borderSamplePoints(blackOffset, extent)

	wvals := sampleAt(img, h, wxs, wys)
	bvals := sampleAt(img, h, bxs, bys)

	return fitGrayModel(wxs, wys, wvals), fitGrayModel(bxs, bys, bvals)
}

func sampleAt(img *imagebuf.Image, h numeric.Mat3, xs, ys []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		px, py := homography.Project(h, xs[i], ys[i])
		out[i] = img.Interpolate(px, py)
	}
	return out
}

// bitCoord maps a bit's grid-space location to tag-space coordinates in
// [-1, 1], per spec.md §4.L.
func bitCoord(bx, by, totalWidth int) (x, y float64) {
	cell := 2.0 / float64(totalWidth)
	return float64(bx) * cell, float64(by) * cell
}

// sampleBitValues samples every bit's signed margin relative to the
// per-bit threshold given by the gray models, before sharpening.
func sampleBitValues(img *imagebuf.Image, h numeric.Mat3, f *family.Family, white, black grayModel) []float64 {
	values := make([]float64, f.NBits)
	for i := 0; i < f.NBits; i++ {
		tx, ty := bitCoord(f.BitX[i], f.BitY[i], f.TotalWidth)
		px, py := homography.Project(h, tx, ty)
		sample := img.Interpolate(px, py)
		threshold := (white.eval(tx, ty) + black.eval(tx, ty)) / 2
		values[i] = sample - threshold
	}
	return values
}

// sharpen applies the boundary-aware Laplacian of spec.md §4.L: each
// bit's center coefficient stays 4 regardless of how many of its four
// grid neighbors actually exist in the family's bit set; missing
// neighbor contributions are simply omitted, not renormalized.
func sharpen(f *family.Family, values []float64, decodeSharpening float64) []float64 {
	if decodeSharpening == 0 {
		return values
	}
	loc := make(map[[2]int]int, f.NBits)
	for i := 0; i < f.NBits; i++ {
		loc[[2]int{f.BitX[i], f.BitY[i]}] = i
	}
	out := make([]float64, len(values))
	copy(out, values)
	offsets := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for i := 0; i < f.NBits; i++ {
		lap := 4 * values[i]
		for _, off := range offsets {
			if j, ok := loc[[2]int{f.BitX[i] + off[0], f.BitY[i] + off[1]}]; ok {
				lap -= values[j]
			}
		}
		out[i] += decodeSharpening * lap
	}
	return out
}

// extractCode turns per-bit signed margins into a codeword and decision
// margin, per spec.md §4.L: bits are read MSB-first in the family's bit
// list order, with Laplace-smoothed (count-starts-at-1) white/black
// score averages.
func extractCode(values []float64) (code uint64, decisionMargin float64) {
	n := len(values)
	whiteScore, whiteCount := 0.0, 1.0
	blackScore, blackCount := 0.0, 1.0
	for i, v := range values {
		if v > 0 {
			code |= uint64(1) << uint(n-1-i)
			whiteScore += v
			whiteCount++
		} else {
			blackScore += -v
			blackCount++
		}
	}
	decisionMargin = 100 * min(whiteScore/whiteCount, blackScore/blackCount)
	return code, decisionMargin
}

// Decode runs the full tag decoder against a fitted homography and
// candidate family: gray models, polarity check, bit sampling,
// sharpening, code extraction, and quick-decode matching. ok is false if
// the polarity doesn't match f, the decision margin is non-positive, or
// no quick-decode match is found within the family's configured max
// Hamming distance.
func Decode(img *imagebuf.Image, h numeric.Mat3, f *family.Family, decodeSharpening float64) (Result, bool) {
	white, black := sampleGrayModels(img, h, f)

	whiteAtCenter := white.eval(0, 0)
	blackAtCenter := black.eval(0, 0)
	reversed := whiteAtCenter < blackAtCenter
	if reversed != f.ReversedBorder {
		return Result{}, false
	}

	values := sampleBitValues(img, h, f, white, black)
	values = sharpen(f, values, decodeSharpening)

	code, margin := extractCode(values)
	if margin <= 0 {
		return Result{}, false
	}

	m, ok := f.Lookup(code)
	if !ok {
		return Result{}, false
	}

	return Result{
		CodeIndex:      m.CodeIndex,
		Hamming:        m.Hamming,
		DecisionMargin: margin,
		Rotation:       m.Rotation,
	}, true
}
