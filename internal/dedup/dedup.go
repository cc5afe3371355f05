// Package dedup implements detection deduplication (spec.md §4.M):
// grouping candidate detections by (family, id), testing pairwise
// overlap via the separating axis theorem, and keeping one detection per
// overlapping group by a deterministic preference order.
package dedup

import "math"

// Candidate is the minimal view a detection needs to expose for
// deduplication: its family name and decoded id identify its group;
// Hamming distance and decision margin and corners drive the preference
// order within a group.
type Candidate struct {
	FamilyName     string
	ID             int
	Hamming        int
	DecisionMargin float64
	Corners        [4][2]float64
}

// Dedup groups candidates by (FamilyName, ID) and, within each group
// with more than one member, keeps only the SAT-overlapping survivors
// per the preference order: lower Hamming distance first, then higher
// decision margin, then lexicographically smaller corner coordinates.
// It returns the indices (into candidates) of the kept detections, in
// their original relative order.
func Dedup(candidates []Candidate) []int {
	n := len(candidates)
	kept := make([]bool, n)
	for i := range kept {
		kept[i] = true
	}

	type key struct {
		name string
		id   int
	}
	groups := make(map[key][]int)
	for i, c := range candidates {
		k := key{c.FamilyName, c.ID}
		groups[k] = append(groups[k], i)
	}

	for _, idxs := range groups {
		for a := 0; a < len(idxs); a++ {
			if !kept[idxs[a]] {
				continue
			}
			for b := a + 1; b < len(idxs); b++ {
				i, j := idxs[a], idxs[b]
				if !kept[i] || !kept[j] {
					continue
				}
				if !overlaps(candidates[i].Corners, candidates[j].Corners) {
					continue
				}
				if prefer(candidates[j], candidates[i]) {
					kept[i] = false
				} else {
					kept[j] = false
				}
			}
		}
	}

	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if kept[i] {
			out = append(out, i)
		}
	}
	return out
}

// prefer reports whether candidate b should be kept over candidate a,
// per spec.md §4.M's total order: lower Hamming distance, then higher
// decision margin, then lexicographically smaller corners.
func prefer(b, a Candidate) bool {
	if b.Hamming != a.Hamming {
		return b.Hamming < a.Hamming
	}
	if b.DecisionMargin != a.DecisionMargin {
		return b.DecisionMargin > a.DecisionMargin
	}
	return lexLess(b.Corners, a.Corners)
}

func lexLess(a, b [4][2]float64) bool {
	for i := 0; i < 4; i++ {
		if a[i][0] != b[i][0] {
			return a[i][0] < b[i][0]
		}
		if a[i][1] != b[i][1] {
			return a[i][1] < b[i][1]
		}
	}
	return false
}

// overlaps tests whether two convex CCW quadrilaterals overlap via the
// separating axis theorem: eight candidate axes (the outward normals of
// each quad's four edges), projecting both quads onto each axis. If any
// axis separates the projections, the quads don't overlap.
func overlaps(a, b [4][2]float64) bool {
	for _, axis := range edgeNormals(a) {
		if separated(a, b, axis) {
			return false
		}
	}
	for _, axis := range edgeNormals(b) {
		if separated(a, b, axis) {
			return false
		}
	}
	return true
}

func edgeNormals(q [4][2]float64) [4][2]float64 {
	var axes [4][2]float64
	for i := 0; i < 4; i++ {
		p0 := q[i]
		p1 := q[(i+1)%4]
		dx := p1[0] - p0[0]
		dy := p1[1] - p0[1]
		length := math.Hypot(dx, dy)
		if length == 0 {
			axes[i] = [2]float64{1, 0}
			continue
		}
		axes[i] = [2]float64{dy / length, -dx / length}
	}
	return axes
}

func separated(a, b [4][2]float64, axis [2]float64) bool {
	aMin, aMax := projectExtent(a, axis)
	bMin, bMax := projectExtent(b, axis)
	return aMax < bMin || bMax < aMin
}

func projectExtent(q [4][2]float64, axis [2]float64) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, p := range q {
		d := p[0]*axis[0] + p[1]*axis[1]
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}
