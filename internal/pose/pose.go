// Package pose implements camera-frame pose estimation from a decoded
// tag's homography (spec.md §4.O): an initial pose from the homography
// and camera intrinsics, Lu et al.'s orthogonal iteration refinement,
// and resolution of the planar pose ambiguity.
package pose

import (
	"math"

	"github.com/benlenarts/apriltag-go/internal/numeric"
)

// Pose is a rigid camera-from-tag transform: a point p in the tag's
// frame (origin at its center, z=0 plane) maps to R*p + T in the
// camera frame (z forward, x right, y down). Err is the sum of
// squared reprojection-ray residuals at convergence.
type Pose struct {
	R   numeric.Mat3
	T   [3]float64
	Err float64
}

// Intrinsics is a pinhole camera model: focal lengths in pixels and the
// principal point, per spec.md §6's Estimate pose interface.
type Intrinsics struct {
	Fx, Fy, Cx, Cy float64
}

const (
	maxIterations  = 50
	convergenceEps = 1e-12
	ambiguitySep   = 0.1 // radians; spec.md §4.O's second-root separation threshold.
)

// tagCorners mirrors homography.tagCorners; duplicated here rather than
// imported to keep pose from depending on the homography package for a
// four-element constant.
var tagCorners = [4][2]float64{
	{-1, -1},
	{1, -1},
	{1, 1},
	{-1, 1},
}

// Estimate computes the best pose for a tag of physical size tagSize
// (same units as the returned translation) given its fitted homography
// h and camera intrinsics. It also returns the second-best pose when
// the planar ambiguity has a distinct local minimum more than 0.1
// radians away from the best one; alt is nil otherwise.
func Estimate(h numeric.Mat3, tagSize float64, k Intrinsics) (best Pose, alt *Pose) {
	p := tagObjectPoints(tagSize)
	rays := cornerRays(h, k)

	r0, t0 := initialPose(h, tagSize, k)
	best = orthogonalIteration(p, rays, r0, t0)

	secondR, secondT, ok := secondSolution(p, rays, best)
	if !ok {
		return best, nil
	}
	second := orthogonalIteration(p, rays, secondR, secondT)
	if second.Err < best.Err {
		best, second = second, best
	}
	alt = &second
	return best, alt
}

// tagObjectPoints returns the four tag corners in the tag's own frame
// (z=0, centered at the origin, half-width tagSize/2), in the same
// cyclic order as homography.Fit's tagCorners.
func tagObjectPoints(tagSize float64) [4][3]float64 {
	half := tagSize / 2
	var p [4][3]float64
	for i, c := range tagCorners {
		p[i] = [3]float64{c[0] * half, c[1] * half, 0}
	}
	return p
}

// cornerRays projects the tag's corners through h into pixel space and
// returns the corresponding (unnormalized) camera rays through the
// pinhole, one per corner.
func cornerRays(h numeric.Mat3, k Intrinsics) [4][3]float64 {
	var rays [4][3]float64
	for i, c := range tagCorners {
		w := h.At(2, 0)*c[0] + h.At(2, 1)*c[1] + h.At(2, 2)
		px := (h.At(0, 0)*c[0] + h.At(0, 1)*c[1] + h.At(0, 2)) / w
		py := (h.At(1, 0)*c[0] + h.At(1, 1)*c[1] + h.At(1, 2)) / w
		rays[i] = [3]float64{(px - k.Cx) / k.Fx, (py - k.Cy) / k.Fy, 1}
	}
	return rays
}

// initialPose forms R, T per spec.md §4.O's initial-pose recipe: invert
// the intrinsics, strip them from h, normalize the first two columns to
// unit scale, complete the third via a cross product, and project onto
// SO(3).
func initialPose(h numeric.Mat3, tagSize float64, k Intrinsics) (numeric.Mat3, [3]float64) {
	kMat := numeric.Mat3{k.Fx, 0, k.Cx, 0, k.Fy, k.Cy, 0, 0, 1}
	kInv, _ := kMat.Inverse()
	m := kInv.Mul(h)

	r0 := m.Col(0)
	r1 := m.Col(1)
	t := m.Col(2)

	// The homography's sign is fixed by gauss_eliminate_8x9's h33=1
	// convention, which can place the reprojected tag behind the
	// camera; flip the whole mapping if so; a rigid transform with
	// det(R)=+1 is invariant under negating R's first two columns and T
	// together, so this is still a valid candidate pose.
	if t[2] < 0 {
		r0 = negate(r0)
		r1 = negate(r1)
		t = negate(t)
	}

	s := (norm(r0) + norm(r1)) / 2
	r0 = scale(r0, 1/s)
	r1 = scale(r1, 1/s)
	t = scale(t, tagSize/2/s)

	r2 := cross(r0, r1)
	r := numeric.Identity3().SetCol(0, r0).SetCol(1, r1).SetCol(2, r2)
	r = projectSO3(r)
	return r, t
}

// projectSO3 replaces m with the nearest proper rotation, R = U*V^T
// from m's SVD, negating U's last column when that product would have
// a negative determinant.
func projectSO3(m numeric.Mat3) numeric.Mat3 {
	u, _, v := numeric.SVD3x3(m)
	r := u.Mul(v.Transpose())
	if r.Det() < 0 {
		u = u.SetCol(2, negate(u.Col(2)))
		r = u.Mul(v.Transpose())
	}
	return r
}

// orthogonalIteration refines (r, t) by Lu et al.'s algorithm: each
// iteration re-solves for the translation that minimizes the
// object-space collinearity error under the current rotation, then
// re-solves for the nearest proper rotation under the updated
// translation, until the error stops improving or 50 iterations pass.
func orthogonalIteration(p, rays [4][3]float64, r numeric.Mat3, t [3]float64) Pose {
	var f [4]numeric.Mat3
	var sumF numeric.Mat3
	for i, v := range rays {
		f[i] = outer(v, v).Scale(1 / dot(v, v))
		sumF = addMat(sumF, f[i])
	}
	id := numeric.Identity3()
	aInv, ok := subMat(id, sumF.Scale(1.0/4)).Inverse()
	if !ok {
		aInv = id
	}

	prevErr := math.Inf(1)
	for iter := 0; iter < maxIterations; iter++ {
		var rhs [3]float64
		for i, pi := range p {
			rp := r.MulVec(pi)
			fiMinusI := subMat(f[i], id)
			rhs = add(rhs, fiMinusI.MulVec(rp))
		}
		rhs = scale(rhs, 1.0/4)
		t = aInv.MulVec(rhs)

		var m numeric.Mat3
		for i, pi := range p {
			rp := r.MulVec(pi)
			q := add(rp, t)
			fq := f[i].MulVec(q)
			m = addMat(m, outer(fq, pi))
		}
		r = projectSO3(m)

		errVal := 0.0
		for i, pi := range p {
			rp := r.MulVec(pi)
			q := add(rp, t)
			diff := subVec(q, f[i].MulVec(q))
			errVal += dot(diff, diff)
		}
		if math.Abs(prevErr-errVal) < convergenceEps {
			prevErr = errVal
			break
		}
		prevErr = errVal
	}
	return Pose{R: r, T: t, Err: prevErr}
}

// secondSolution searches for a second local minimum of the
// orthogonal-iteration error as a function of rotation angle about the
// camera-to-tag viewing axis. That error is, by construction, a degree-4
// trigonometric polynomial in the rotation angle (at most four
// stationary points, alternating minima and maxima); rather than solve
// for its coefficients symbolically, this samples it densely and
// refines each sign change of the discrete derivative by golden-section
// search, which finds the same stationary points without a fragile
// hand-derived quartic. ok is false if no minimum lies further than
// ambiguitySep radians from best's own angle.
func secondSolution(p, rays [4][3]float64, best Pose) (numeric.Mat3, [3]float64, bool) {
	axis := best.T
	if n := norm(axis); n > 1e-12 {
		axis = scale(axis, 1/n)
	} else {
		axis = [3]float64{0, 0, 1}
	}

	errAt := func(theta float64) float64 {
		r := rotateAboutAxis(axis, theta).Mul(best.R)
		return candidateError(p, rays, r)
	}

	const samples = 360
	thetas := make([]float64, samples)
	errs := make([]float64, samples)
	for i := 0; i < samples; i++ {
		theta := -math.Pi + 2*math.Pi*float64(i)/float64(samples)
		thetas[i] = theta
		errs[i] = errAt(theta)
	}

	var minima []float64
	for i := 0; i < samples; i++ {
		prev := errs[(i-1+samples)%samples]
		next := errs[(i+1)%samples]
		if errs[i] <= prev && errs[i] <= next {
			minima = append(minima, refineMinimum(errAt, thetas[(i-1+samples)%samples], thetas[(i+1)%samples]))
		}
	}

	bestTheta, bestFound := 0.0, false
	for _, theta := range minima {
		if angularSeparation(theta) > ambiguitySep && (!bestFound || errAt(theta) < errAt(bestTheta)) {
			bestTheta, bestFound = theta, true
		}
	}
	if !bestFound {
		return numeric.Mat3{}, [3]float64{}, false
	}

	r := rotateAboutAxis(axis, bestTheta).Mul(best.R)
	t := best.T
	return r, t, true
}

// angularSeparation measures theta's distance from the 0 reference
// (best's own angle, by construction of errAt's parameterization) on
// the circle.
func angularSeparation(theta float64) float64 {
	a := math.Mod(math.Abs(theta), 2*math.Pi)
	if a > math.Pi {
		a = 2*math.Pi - a
	}
	return a
}

// refineMinimum golden-section searches for the minimizer of f within
// [lo, hi], assumed unimodal over that bracket.
func refineMinimum(f func(float64) float64, lo, hi float64) float64 {
	const gr = 0.6180339887498949
	for i := 0; i < 40; i++ {
		c := hi - (hi-lo)*gr
		d := lo + (hi-lo)*gr
		if f(c) < f(d) {
			hi = d
		} else {
			lo = c
		}
	}
	return (lo + hi) / 2
}

// candidateError evaluates the orthogonal-iteration object-space error
// for a fixed rotation r, re-solving only for the translation that
// minimizes it (the same linear step orthogonalIteration performs per
// iteration), without iterating to convergence.
func candidateError(p, rays [4][3]float64, r numeric.Mat3) float64 {
	var f [4]numeric.Mat3
	var sumF numeric.Mat3
	for i, v := range rays {
		f[i] = outer(v, v).Scale(1 / dot(v, v))
		sumF = addMat(sumF, f[i])
	}
	id := numeric.Identity3()
	aInv, ok := subMat(id, sumF.Scale(1.0/4)).Inverse()
	if !ok {
		aInv = id
	}

	var rhs [3]float64
	for i, pi := range p {
		rp := r.MulVec(pi)
		rhs = add(rhs, subMat(f[i], id).MulVec(rp))
	}
	rhs = scale(rhs, 1.0/4)
	t := aInv.MulVec(rhs)

	errVal := 0.0
	for i, pi := range p {
		rp := r.MulVec(pi)
		q := add(rp, t)
		diff := subVec(q, f[i].MulVec(q))
		errVal += dot(diff, diff)
	}
	return errVal
}

// rotateAboutAxis returns the rotation matrix for angle theta about the
// unit axis, via Rodrigues' formula.
func rotateAboutAxis(axis [3]float64, theta float64) numeric.Mat3 {
	c, s := math.Cos(theta), math.Sin(theta)
	x, y, z := axis[0], axis[1], axis[2]
	kMat := numeric.Mat3{
		0, -z, y,
		z, 0, -x,
		-y, x, 0,
	}
	k2 := kMat.Mul(kMat)
	return addMat(addMat(numeric.Identity3(), kMat.Scale(s)), k2.Scale(1-c))
}

func negate(v [3]float64) [3]float64 { return [3]float64{-v[0], -v[1], -v[2]} }

func norm(v [3]float64) float64 { return math.Sqrt(dot(v, v)) }

func scale(v [3]float64, s float64) [3]float64 {
	return [3]float64{v[0] * s, v[1] * s, v[2] * s}
}

func add(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func subVec(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func outer(a, b [3]float64) numeric.Mat3 {
	return numeric.Mat3{
		a[0] * b[0], a[0] * b[1], a[0] * b[2],
		a[1] * b[0], a[1] * b[1], a[1] * b[2],
		a[2] * b[0], a[2] * b[1], a[2] * b[2],
	}
}

func addMat(a, b numeric.Mat3) numeric.Mat3 {
	var out numeric.Mat3
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func subMat(a, b numeric.Mat3) numeric.Mat3 {
	var out numeric.Mat3
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
