package quad

import "github.com/benlenarts/apriltag-go/internal/numeric"

// Line is a fitted edge segment: a point on the line (the range's
// weighted centroid) and a unit normal.
type Line struct {
	Cx, Cy float64
	Nx, Ny float64
	MSE    float64
}

// fitLine fits a line to the given moments (covering some point range),
// per spec.md §4.H.4: covariance from the moments, then the eigenvector
// of the smaller eigenvalue gives the line's unit normal; mean squared
// error is lambdaMin / W.
func fitLine(m Moments) Line {
	if m.W <= 0 {
		return Line{}
	}
	cx := m.Mx / m.W
	cy := m.My / m.W
	cxx := m.Mxx/m.W - cx*cx
	cxy := m.Mxy/m.W - cx*cy
	cyy := m.Myy/m.W - cy*cy

	_, lambdaMin, _, vMin := numeric.EigenSym2x2(cxx, cxy, cyy)

	return Line{
		Cx:  cx,
		Cy:  cy,
		Nx:  vMin[0],
		Ny:  vMin[1],
		MSE: lambdaMin / m.W,
	}
}
