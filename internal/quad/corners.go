package quad

// intersect solves for the point lying on both lines a and b, each given
// in normal form Nx*(x-Cx) + Ny*(y-Cy) = 0, by solving the 2x2 system
//
//	[ a.Nx a.Ny ] [x]   [ a.Nx*a.Cx + a.Ny*a.Cy ]
//	[ b.Nx b.Ny ] [y] = [ b.Nx*b.Cx + b.Ny*b.Cy ]
//
// per spec.md §4.H.8. ok is false if the lines are (near-)parallel,
// |det| < 0.001.
func intersect(a, b Line) (x, y float64, ok bool) {
	det := a.Nx*b.Ny - a.Ny*b.Nx
	if det < 0 {
		det = -det
	}
	if det < 0.001 {
		return 0, 0, false
	}
	ra := a.Nx*a.Cx + a.Ny*a.Cy
	rb := b.Nx*b.Cx + b.Ny*b.Cy
	invDet := 1.0 / (a.Nx*b.Ny - a.Ny*b.Nx)
	x = (ra*b.Ny - rb*a.Ny) * invDet
	y = (a.Nx*rb - b.Nx*ra) * invDet
	return x, y, true
}

// cornersFromSegmentation intersects each adjacent pair of the four
// fitted lines, returning the four corners in the same cyclic order as
// the segmentation's maxima/lines.
func cornersFromSegmentation(seg segmentation) (corners [4][2]float64, ok bool) {
	for i := 0; i < 4; i++ {
		prev := seg.lines[(i+3)%4]
		cur := seg.lines[i]
		x, y, o := intersect(prev, cur)
		if !o {
			return corners, false
		}
		corners[i] = [2]float64{x, y}
	}
	return corners, true
}
