package quad

import "math"

// Moments is the cumulative line-fit moment record of spec.md §3: entry
// i holds the running sums over points [0, i), with one zero sentinel at
// index 0, so any contiguous range [a, b) is computed by a single
// subtraction: subMoments(moments[a], moments[b]).
type Moments struct {
	W, Mx, My, Mxx, Mxy, Myy float64
}

func subMoments(a, b Moments) Moments {
	return Moments{
		W:   b.W - a.W,
		Mx:  b.Mx - a.Mx,
		My:  b.My - a.My,
		Mxx: b.Mxx - a.Mxx,
		Mxy: b.Mxy - a.Mxy,
		Myy: b.Myy - a.Myy,
	}
}

// point is the minimal (x, y, gx, gy) view the moment/sort/fit code
// needs, decoupled from clustermap.EdgePoint's packed representation.
type point struct {
	x, y   float64
	gx, gy float64
}

// buildMoments computes the cumulative moment array for pts, already in
// angular-sorted order, with weight w = hypot(gx, gy) + 1 per point.
// dst, if long enough, is reused instead of allocating.
func buildMoments(pts []point, dst []Moments) []Moments {
	n := len(pts)
	if cap(dst) < n+1 {
		dst = make([]Moments, n+1)
	}
	dst = dst[:n+1]
	dst[0] = Moments{}
	for i, p := range pts {
		w := math.Hypot(p.gx, p.gy) + 1
		prev := dst[i]
		dst[i+1] = Moments{
			W:   prev.W + w,
			Mx:  prev.Mx + w*p.x,
			My:  prev.My + w*p.y,
			Mxx: prev.Mxx + w*p.x*p.x,
			Mxy: prev.Mxy + w*p.x*p.y,
			Myy: prev.Myy + w*p.y*p.y,
		}
	}
	return dst
}

// circularRange returns the moments over the circular range [a, b)
// modulo n (b may be < a, wrapping around).
func circularRange(moments []Moments, a, b, n int) Moments {
	a = ((a % n) + n) % n
	b = ((b % n) + n) % n
	if a < b {
		return subMoments(moments[a], moments[b])
	}
	// Wraps: [a, n) + [0, b).
	wrap := subMoments(moments[a], moments[n])
	head := moments[b]
	return Moments{
		W:   wrap.W + head.W,
		Mx:  wrap.Mx + head.Mx,
		My:  wrap.My + head.My,
		Mxx: wrap.Mxx + head.Mxx,
		Mxy: wrap.Mxy + head.Mxy,
		Myy: wrap.Myy + head.Myy,
	}
}
