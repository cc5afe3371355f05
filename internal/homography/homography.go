// Package homography implements the tag-space to pixel-space projective
// mapping (spec.md §4.J): a direct linear transform solved from the four
// fixed tag-corner correspondences, plus forward and inverse projection.
package homography

import "github.com/benlenarts/apriltag-go/internal/numeric"

// tagCorners are the four fixed tag-space correspondences, in the same
// cyclic order as a fitted Quad's corners: (-1,-1), (1,-1), (1,1), (-1,1).
var tagCorners = [4][2]float64{
	{-1, -1},
	{1, -1},
	{1, 1},
	{-1, 1},
}

// Fit solves the 3x3 homography H mapping tag-space coordinates (in
// [-1,1]x[-1,1]) to the given four pixel-space corners (same cyclic
// order as tagCorners), via the standard DLT 8x9 system, two rows per
// correspondence. ok is false if the system is singular (e.g.
// degenerate, collinear corners).
func Fit(corners [4][2]float64) (h numeric.Mat3, ok bool) {
	var a [72]float64
	for i := 0; i < 4; i++ {
		x, y := tagCorners[i][0], tagCorners[i][1]
		u, v := corners[i][0], corners[i][1]
		r0 := a[i*2*9 : i*2*9+9]
		r1 := a[(i*2+1)*9 : (i*2+1)*9+9]

		// Row for u: x*h0 + y*h1 + h2 - u*x*h6 - u*y*h7 - u*h8 = 0
		r0[0], r0[1], r0[2] = x, y, 1
		r0[3], r0[4], r0[5] = 0, 0, 0
		r0[6], r0[7], r0[8] = -u*x, -u*y, -u

		// Row for v: 0 + 0 + 0 + x*h3 + y*h4 + h5 - v*x*h6 - v*y*h7 - v*h8 = 0
		r1[0], r1[1], r1[2] = 0, 0, 0
		r1[3], r1[4], r1[5] = x, y, 1
		r1[6], r1[7], r1[8] = -v*x, -v*y, -v
	}

	sol, ok := numeric.GaussEliminate8x9(a[:])
	if !ok {
		return numeric.Mat3{}, false
	}
	return numeric.Mat3(sol), true
}

// Project applies the homography h to tag-space point (x, y) and
// returns the corresponding pixel-space point.
func Project(h numeric.Mat3, x, y float64) (px, py float64) {
	w := h.At(2, 0)*x + h.At(2, 1)*y + h.At(2, 2)
	px = (h.At(0, 0)*x + h.At(0, 1)*y + h.At(0, 2)) / w
	py = (h.At(1, 0)*x + h.At(1, 1)*y + h.At(1, 2)) / w
	return px, py
}

// Inverse returns h's matrix inverse (the pixel-to-tag-space mapping),
// or ok=false if h is singular.
func Inverse(h numeric.Mat3) (inv numeric.Mat3, ok bool) {
	return h.Inverse()
}
