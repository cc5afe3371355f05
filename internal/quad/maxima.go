package quad

import "math"

// errorWindow returns the half-window size k used to fit the local line
// around sorted index i, per spec.md §4.H.5: k = max(1, min(20, n/12)).
func errorWindow(n int) int {
	k := n / 12
	if k > 20 {
		k = 20
	}
	if k < 1 {
		k = 1
	}
	return k
}

// buildErrorArray computes, for each sorted point i, the MSE of a line
// fit to the circular range [i-k, i+k], using the cumulative moments.
func buildErrorArray(moments []Moments, n int, dst []float64) []float64 {
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	k := errorWindow(n)
	for i := 0; i < n; i++ {
		m := circularRange(moments, i-k, i+k+1, n)
		dst[i] = fitLine(m).MSE
	}
	return dst
}

// gaussianSmoothCircular smooths err (length n, circular) with a 1D
// Gaussian of sigma=1, truncated where the kernel weight drops below
// 0.05, normalized to unit sum (spec.md §4.H.5).
func gaussianSmoothCircular(err []float64, dst []float64) []float64 {
	n := len(err)
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	if n == 0 {
		return dst
	}

	const sigma = 1.0
	var offsets []int
	var weights []float64
	var sum float64
	for d := 0; ; d++ {
		w := math.Exp(-0.5 * float64(d*d) / (sigma * sigma))
		if w < 0.05 {
			break
		}
		if d == 0 {
			offsets = append(offsets, 0)
			weights = append(weights, w)
			sum += w
		} else {
			offsets = append(offsets, d, -d)
			weights = append(weights, w, w)
			sum += 2 * w
		}
	}
	for i := range weights {
		weights[i] /= sum
	}

	for i := 0; i < n; i++ {
		var acc float64
		for j, off := range offsets {
			idx := ((i+off)%n + n) % n
			acc += weights[j] * err[idx]
		}
		dst[i] = acc
	}
	return dst
}

// localMaxima returns the sorted indices of circular local maxima of err
// (err[i] > err[i-1] and err[i] > err[i+1], indices mod n), capped to the
// maxNMaxima largest by magnitude, re-sorted by index afterward.
func localMaxima(err []float64, maxNMaxima int) []int {
	n := len(err)
	if n < 3 {
		return nil
	}
	var idx []int
	for i := 0; i < n; i++ {
		prev := err[(i-1+n)%n]
		next := err[(i+1)%n]
		if err[i] > prev && err[i] > next {
			idx = append(idx, i)
		}
	}
	if len(idx) > maxNMaxima {
		sortedByMag := append([]int(nil), idx...)
		insertionSortIntsByKeyDesc(sortedByMag, err)
		idx = append([]int(nil), sortedByMag[:maxNMaxima]...)
		insertionSortInts(idx)
	}
	return idx
}

func insertionSortIntsByKeyDesc(idx []int, err []float64) {
	for i := 1; i < len(idx); i++ {
		v := idx[i]
		kv := err[v]
		j := i - 1
		for j >= 0 && err[idx[j]] < kv {
			idx[j+1] = idx[j]
			j--
		}
		idx[j+1] = v
	}
}

func insertionSortInts(idx []int) {
	for i := 1; i < len(idx); i++ {
		v := idx[i]
		j := i - 1
		for j >= 0 && idx[j] > v {
			idx[j+1] = idx[j]
			j--
		}
		idx[j+1] = v
	}
}
