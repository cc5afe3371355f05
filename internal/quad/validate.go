package quad

import "math"

// reversedBorder implements spec.md §4.H.1: centroid (cx,cy), s =
// sum((xi-cx)*gx + (yi-cy)*gy) over the cluster's points; the border is
// "reversed" (tag's black/white sense flipped) when s < 0.
func reversedBorder(pts []point, cx, cy float64) bool {
	var s float64
	for _, p := range pts {
		s += (p.x-cx)*p.gx + (p.y-cy)*p.gy
	}
	return s < 0
}

// shoelaceArea returns the signed polygon area of the four corners
// (positive for counter-clockwise winding in image coordinates where y
// increases downward is treated the same as any planar coordinate
// frame: the sign just reports winding, not a "true up" orientation).
func shoelaceArea(c [4][2]float64) float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		sum += c[i][0]*c[j][1] - c[j][0]*c[i][1]
	}
	return sum / 2
}

// ensureCCW reverses the corner order in place if the signed area is
// negative (clockwise), returning the corrected corners and the
// now-nonnegative area.
func ensureCCW(c [4][2]float64) ([4][2]float64, float64) {
	area := shoelaceArea(c)
	if area >= 0 {
		return c, area
	}
	var rev [4][2]float64
	for i := 0; i < 4; i++ {
		rev[i] = c[3-i]
	}
	return rev, -area
}

// isConvex reports whether the four corners (already CCW) form a convex
// polygon: every cross product of consecutive edge vectors has the same
// (non-negative) sign.
func isConvex(c [4][2]float64) bool {
	for i := 0; i < 4; i++ {
		a := c[i]
		b := c[(i+1)%4]
		d := c[(i+2)%4]
		e1x, e1y := b[0]-a[0], b[1]-a[1]
		e2x, e2y := d[0]-b[0], d[1]-b[1]
		cross := e1x*e2y - e1y*e2x
		if cross < 0 {
			return false
		}
	}
	return true
}

// maxInteriorAngleCos returns the largest |cos(theta)| among the four
// interior angles of the CCW quad c, where theta is measured between the
// two edges meeting at each vertex. Values close to 1 indicate a nearly
// degenerate (straight or reflex-adjacent) corner.
func maxInteriorAngleCos(c [4][2]float64) float64 {
	var worst float64
	for i := 0; i < 4; i++ {
		prev := c[(i+3)%4]
		cur := c[i]
		next := c[(i+1)%4]
		ux, uy := prev[0]-cur[0], prev[1]-cur[1]
		vx, vy := next[0]-cur[0], next[1]-cur[1]
		un := math.Hypot(ux, uy)
		vn := math.Hypot(vx, vy)
		if un == 0 || vn == 0 {
			return 1
		}
		cos := (ux*vx + uy*vy) / (un * vn)
		if cos < 0 {
			cos = -cos
		}
		if cos > worst {
			worst = cos
		}
	}
	return worst
}
