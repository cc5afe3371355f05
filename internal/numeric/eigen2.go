package numeric

import "math"

// EigenSym2x2 computes the eigenvalues (lambdaMax, lambdaMin) of the
// symmetric 2x2 matrix [[cxx, cxy], [cxy, cyy]] via the closed-form
// trace/discriminant formula, and a unit eigenvector for each.
func EigenSym2x2(cxx, cxy, cyy float64) (lambdaMax, lambdaMin float64, vMax, vMin [2]float64) {
	trace := cxx + cyy
	diff := cxx - cyy
	disc := math.Sqrt(diff*diff + 4*cxy*cxy)

	lambdaMax = (trace + disc) / 2
	lambdaMin = (trace - disc) / 2

	vMax = eigenvector2x2(cxx, cxy, cyy, lambdaMax)
	vMin = eigenvector2x2(cxx, cxy, cyy, lambdaMin)
	return
}

// eigenvector2x2 returns a unit eigenvector of [[cxx,cxy],[cxy,cyy]] for
// eigenvalue lambda. (cxy, lambda-cxx) and (lambda-cyy, cxy) both solve
// (A - lambda I) v = 0; the one with larger magnitude is used for
// numerical stability near-degenerate matrices.
func eigenvector2x2(cxx, cxy, cyy, lambda float64) [2]float64 {
	v1 := [2]float64{cxy, lambda - cxx}
	v2 := [2]float64{lambda - cyy, cxy}

	n1 := v1[0]*v1[0] + v1[1]*v1[1]
	n2 := v2[0]*v2[0] + v2[1]*v2[1]

	v := v1
	n := n1
	if n2 > n1 {
		v = v2
		n = n2
	}
	if n < 1e-24 {
		// cxy == 0 and cxx == cyy: any unit vector is an eigenvector.
		return [2]float64{1, 0}
	}
	norm := math.Sqrt(n)
	return [2]float64{v[0] / norm, v[1] / norm}
}
