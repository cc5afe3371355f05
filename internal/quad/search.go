package quad

// segmentation is one candidate four-way split of the sorted point cycle,
// given as the four maxima indices that start each side.
type segmentation struct {
	maxima   [4]int
	lines    [4]Line
	totalMSE float64
}

// searchCombinations tries every strictly increasing quadruple drawn from
// maxima (spec.md §4.H.7), fits the four circular segments each
// quadruple implies, and returns the best-scoring valid combination. ok
// is false if no quadruple passes the MSE and angle checks.
func searchCombinations(moments []Moments, n int, maxima []int, cosCriticalRad, maxLineFitMSE float64) (segmentation, bool) {
	var best segmentation
	haveBest := false

	m := len(maxima)
	for i0 := 0; i0 < m; i0++ {
		for i1 := i0 + 1; i1 < m; i1++ {
			for i2 := i1 + 1; i2 < m; i2++ {
				for i3 := i2 + 1; i3 < m; i3++ {
					cand := segmentation{maxima: [4]int{maxima[i0], maxima[i1], maxima[i2], maxima[i3]}}
					if !fitSegmentation(moments, n, &cand, cosCriticalRad, maxLineFitMSE) {
						continue
					}
					if !haveBest || cand.totalMSE < best.totalMSE {
						best = cand
						haveBest = true
					}
				}
			}
		}
	}
	return best, haveBest
}

// fitSegmentation fits the four lines implied by cand.maxima and
// validates each against the per-segment MSE cap and the adjacent-line
// angle cap. It fills in cand.lines and cand.totalMSE on success.
func fitSegmentation(moments []Moments, n int, cand *segmentation, cosCriticalRad, maxLineFitMSE float64) bool {
	var total float64
	for i := 0; i < 4; i++ {
		a := cand.maxima[i]
		b := cand.maxima[(i+1)%4]
		mo := circularRange(moments, a, b, n)
		if mo.W <= 0 {
			return false
		}
		line := fitLine(mo)
		if line.MSE > maxLineFitMSE {
			return false
		}
		cand.lines[i] = line
		total += line.MSE
	}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		dot := cand.lines[i].Nx*cand.lines[j].Nx + cand.lines[i].Ny*cand.lines[j].Ny
		if dot < 0 {
			dot = -dot
		}
		if dot > cosCriticalRad {
			return false
		}
	}
	cand.totalMSE = total
	return true
}
