package quad

import (
	"github.com/benlenarts/apriltag-go/internal/clustermap"
)

// Scratch bundles the fitter's per-call working buffers so a caller can
// hold one instance per workspace; each buffer grows to the size a
// cluster needs and is reused, never shrunk, for later clusters and calls.
type Scratch struct {
	Moments []Moments
	Err     []float64
	Smooth  []float64
}

// FitQuad attempts to fit a single quad to the given cluster of boundary
// points, implementing spec.md §4.H end to end. It reports ok=false if
// any stage rejects the cluster (size filter, too few maxima, no valid
// four-combination, degenerate intersection, degenerate area, non-convex,
// or too-sharp a corner). s's buffers are grown in place as needed.
func FitQuad(edgePoints []clustermap.EdgePoint, p Params, s *Scratch) (Quad, bool) {
	n := len(edgePoints)
	if n < p.MinClusterPixels || n < 24 || n > p.maxClusterPixels() {
		return Quad{}, false
	}

	pts := make([]point, n)
	var cx, cy float64
	for i, ep := range edgePoints {
		x := ep.PixelX()
		y := ep.PixelY()
		pts[i] = point{x: x, y: y, gx: float64(ep.GX), gy: float64(ep.GY)}
		cx += x
		cy += y
	}
	cx /= float64(n)
	cy /= float64(n)

	reversed := reversedBorder(pts, cx, cy)

	angularSort(pts, cx, cy)

	s.Moments = buildMoments(pts, s.Moments)
	s.Err = buildErrorArray(s.Moments, n, s.Err)
	s.Smooth = gaussianSmoothCircular(s.Err, s.Smooth)

	maxima := localMaxima(s.Smooth, p.MaxNMaxima)
	if len(maxima) < 4 {
		return Quad{}, false
	}

	seg, ok := searchCombinations(s.Moments, n, maxima, p.CosCriticalRad, p.MaxLineFitMSE)
	if !ok {
		return Quad{}, false
	}

	corners, ok := cornersFromSegmentation(seg)
	if !ok {
		return Quad{}, false
	}

	corners, area := ensureCCW(corners)
	minArea := 0.95 * p.MinTagWidthPx * p.MinTagWidthPx
	if area < minArea {
		return Quad{}, false
	}
	if !isConvex(corners) {
		return Quad{}, false
	}
	if maxInteriorAngleCos(corners) > p.CosCriticalRad {
		return Quad{}, false
	}

	var q Quad
	q.ReversedBorder = reversed
	for i := 0; i < 4; i++ {
		q.Corners[i] = [2]float32{float32(corners[i][0]), float32(corners[i][1])}
	}
	return q, true
}

// ScaleToOriginal rescales quad corners computed in decimated-image
// coordinates back to original-image pixel coordinates by decimateFactor,
// in place.
func ScaleToOriginal(q *Quad, decimateFactor int) {
	if decimateFactor == 1 {
		return
	}
	f := float32(decimateFactor)
	for i := range q.Corners {
		q.Corners[i][0] *= f
		q.Corners[i][1] *= f
	}
}
