package quad

import "sort"

// centroidPerturbX/Y are the irrational offsets applied to the cluster
// centroid before computing angular sort keys, so no point lands exactly
// on the centroid (spec.md §4.H.2).
const (
	centroidPerturbX = 0.05118
	centroidPerturbY = -0.028581
)

// angularKey maps (dx, dy) = (point - perturbed centroid) monotonically
// over one counter-clockwise cycle onto [0, 4), using a quadrant index
// plus a |dy|/|dx|-style proxy instead of atan2.
func angularKey(dx, dy float64) float64 {
	switch {
	case dx > 0 && dy >= 0:
		return 0 + ratio(dy, dx)
	case dx <= 0 && dy > 0:
		return 1 + ratio(-dx, dy)
	case dx < 0 && dy <= 0:
		return 2 + ratio(-dy, -dx)
	default: // dx >= 0 && dy <= 0
		return 3 + ratio(dx, -dy)
	}
}

// ratio returns a/(a+b) clamped to [0,1), a monotonic proxy for the
// angle within a quadrant without computing atan2. a and b are
// non-negative by construction at each call site.
func ratio(a, b float64) float64 {
	denom := a + b
	if denom <= 0 {
		return 0
	}
	v := a / denom
	if v >= 1 {
		v = 0.999999999
	}
	return v
}

// angularSort sorts pts by their angular key around the perturbed
// centroid (cx, cy), in place, stably. Sizes up to 5 use an explicit
// insertion-sort network (a valid sorting network at that size); larger
// clusters use a stable sort.
func angularSort(pts []point, cx, cy float64) {
	px := cx + centroidPerturbX
	py := cy + centroidPerturbY

	keys := make([]float64, len(pts))
	for i, p := range pts {
		keys[i] = angularKey(p.x-px, p.y-py)
	}

	if len(pts) <= 5 {
		insertionSortByKey(pts, keys)
		return
	}

	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return keys[idx[i]] < keys[idx[j]] })

	sorted := make([]point, len(pts))
	for i, j := range idx {
		sorted[i] = pts[j]
	}
	copy(pts, sorted)
}

// insertionSortByKey sorts pts (and the parallel keys slice) in place by
// key, stably. A stable insertion sort is itself a sorting network for
// small fixed sizes.
func insertionSortByKey(pts []point, keys []float64) {
	for i := 1; i < len(pts); i++ {
		kj := keys[i]
		pj := pts[i]
		j := i - 1
		for j >= 0 && keys[j] > kj {
			keys[j+1] = keys[j]
			pts[j+1] = pts[j]
			j--
		}
		keys[j+1] = kj
		pts[j+1] = pj
	}
}
