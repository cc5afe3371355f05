package quad

import (
	"math"

	"github.com/benlenarts/apriltag-go/internal/imagebuf"
)

// RefineEdges implements spec.md §4.I: each edge of q (already in
// original-image pixel coordinates) is re-fit by searching, at a set of
// sample points along the edge, for the strongest gradient crossing
// along the edge's outward normal, then re-fitting a line to the
// weighted samples and re-intersecting adjacent edges. Edges with too
// few weighted samples, or whose refit would produce a near-parallel
// neighbor pair, keep their original form; RefineEdges never fails
// outright, it only leaves weak edges unrefined.
func RefineEdges(img *imagebuf.Image, q *Quad, quadDecimate float64) {
	corners := [4][2]float64{}
	for i, c := range q.Corners {
		corners[i] = [2]float64{float64(c[0]), float64(c[1])}
	}

	lines := make([]Line, 4)
	refined := make([]bool, 4)
	for i := 0; i < 4; i++ {
		pa := corners[i]
		pb := corners[(i+1)%4]
		line, ok := refineEdge(img, pa, pb, quadDecimate)
		if ok {
			lines[i] = line
			refined[i] = true
		}
	}

	newCorners := corners
	for i := 0; i < 4; i++ {
		prev := (i + 3) % 4
		if !refined[prev] && !refined[i] {
			continue
		}
		lPrev := lines[prev]
		lCur := lines[i]
		if !refined[prev] {
			lPrev = lineThroughOriginalEdge(corners[prev], corners[i])
		}
		if !refined[i] {
			lCur = lineThroughOriginalEdge(corners[i], corners[(i+1)%4])
		}
		x, y, ok := intersect(lPrev, lCur)
		if !ok {
			continue
		}
		newCorners[i] = [2]float64{x, y}
	}

	for i, c := range newCorners {
		q.Corners[i] = [2]float32{float32(c[0]), float32(c[1])}
	}
}

// lineThroughOriginalEdge builds a Line in the same normal-form
// representation as fitLine, from an edge's two unrefined endpoints,
// used so re-intersection can mix a refined edge with an unrefined
// neighbor.
func lineThroughOriginalEdge(a, b [2]float64) Line {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return Line{Cx: a[0], Cy: a[1], Nx: 1, Ny: 0}
	}
	return Line{
		Cx: (a[0] + b[0]) / 2,
		Cy: (a[1] + b[1]) / 2,
		Nx: dy / length,
		Ny: -dx / length,
	}
}

// refineEdge samples along the edge pa->pb, refines each sample's
// position along the edge's outward normal by locating the strongest
// gradient crossing nearby, and fits a line to the weighted refined
// positions.
func refineEdge(img *imagebuf.Image, pa, pb [2]float64, quadDecimate float64) (Line, bool) {
	dx := pb[0] - pa[0]
	dy := pb[1] - pa[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return Line{}, false
	}
	ex, ey := dx/length, dy/length
	nx, ny := ey, -ex // outward normal, right-hand side of CCW travel

	nsamples := int(length / 8)
	if nsamples < 16 {
		nsamples = 16
	}

	searchRange := quadDecimate + 1

	var mW, mMx, mMy, mMxx, mMxy, mMyy float64
	validSamples := 0

	for s := 1; s < nsamples; s++ {
		t := float64(s) / float64(nsamples)
		px := pa[0] + t*dx
		py := pa[1] + t*dy

		var sumWN, sumW float64
		for off := -searchRange; off <= searchRange; off += 0.25 {
			sx := px + off*nx
			sy := py + off*ny
			g1 := sampleClamped(img, sx+nx, sy+ny)
			g2 := sampleClamped(img, sx-nx, sy-ny)
			if g2 > g1 {
				w := (g1 - g2) * (g1 - g2)
				sumWN += w * off
				sumW += w
			}
		}
		if sumW <= 0 {
			continue
		}
		best := sumWN / sumW
		rx := px + best*nx
		ry := py + best*ny

		w := 1.0
		mW += w
		mMx += w * rx
		mMy += w * ry
		mMxx += w * rx * rx
		mMxy += w * rx * ry
		mMyy += w * ry * ry
		validSamples++
	}

	if validSamples < 4 {
		return Line{}, false
	}

	m := Moments{W: mW, Mx: mMx, My: mMy, Mxx: mMxx, Mxy: mMxy, Myy: mMyy}
	line := fitLine(m)
	return line, true
}

func sampleClamped(img *imagebuf.Image, x, y float64) float64 {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	maxX := float64(img.Width - 1)
	maxY := float64(img.Height - 1)
	if x > maxX {
		x = maxX
	}
	if y > maxY {
		y = maxY
	}
	return img.Interpolate(x, y)
}
