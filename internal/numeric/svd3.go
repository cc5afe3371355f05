package numeric

import "math"

// jacobiSweeps bounds the number of full cyclic Jacobi sweeps when
// diagonalizing a symmetric 3x3 matrix. Convergence for 3x3 is fast; this
// is generous.
const jacobiSweeps = 30

// jacobiEigenSym3 diagonalizes the symmetric 3x3 matrix a via cyclic
// Jacobi rotations, returning its eigenvalues and an orthogonal matrix V
// whose columns are the corresponding eigenvectors, so that
// a = V * diag(eigenvalues) * V^T.
func jacobiEigenSym3(a Mat3) (eigenvalues [3]float64, v Mat3) {
	v = Identity3()
	m := a

	off := func(m Mat3) float64 {
		return math.Abs(m.At(0, 1)) + math.Abs(m.At(0, 2)) + math.Abs(m.At(1, 2))
	}

	for sweep := 0; sweep < jacobiSweeps; sweep++ {
		if off(m) < 1e-14 {
			break
		}
		for _, pq := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
			p, q := pq[0], pq[1]
			apq := m.At(p, q)
			if math.Abs(apq) < 1e-300 {
				continue
			}
			app := m.At(p, p)
			aqq := m.At(q, q)

			theta := (aqq - app) / (2 * apq)
			t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(1+theta*theta))
			if theta == 0 {
				t = 1
			}
			c := 1 / math.Sqrt(1+t*t)
			s := t * c

			m = applyJacobiRotation(m, p, q, c, s)
			v = applyJacobiRotationRight(v, p, q, c, s)
		}
	}

	eigenvalues = [3]float64{m.At(0, 0), m.At(1, 1), m.At(2, 2)}
	return eigenvalues, v
}

// applyJacobiRotation applies the similarity transform J^T M J for the
// Jacobi rotation J(p,q,c,s) to the symmetric matrix m, returning the
// updated matrix (still symmetric to floating-point error).
func applyJacobiRotation(m Mat3, p, q int, c, s float64) Mat3 {
	g := m
	for i := 0; i < 3; i++ {
		mip := m.At(i, p)
		miq := m.At(i, q)
		gip := c*mip - s*miq
		giq := s*mip + c*miq
		g[i*3+p] = gip
		g[i*3+q] = giq
	}
	h := g
	for j := 0; j < 3; j++ {
		gpj := g.At(p, j)
		gqj := g.At(q, j)
		hpj := c*gpj - s*gqj
		hqj := s*gpj + c*gqj
		h[p*3+j] = hpj
		h[q*3+j] = hqj
	}
	return h
}

// applyJacobiRotationRight post-multiplies v by the rotation J(p,q,c,s),
// accumulating the eigenvector basis.
func applyJacobiRotationRight(v Mat3, p, q int, c, s float64) Mat3 {
	out := v
	for i := 0; i < 3; i++ {
		vip := v.At(i, p)
		viq := v.At(i, q)
		out[i*3+p] = c*vip - s*viq
		out[i*3+q] = s*vip + c*viq
	}
	return out
}

// SVD3x3 computes the singular value decomposition a = U * diag(sigma) *
// V^T of the 3x3 matrix a. U and V are orthogonal; sigma is returned
// non-negative and sorted in descending order.
func SVD3x3(a Mat3) (u Mat3, sigma [3]float64, v Mat3) {
	ata := a.Transpose().Mul(a)
	evals, v := jacobiEigenSym3(ata)

	// Sort eigenpairs descending by eigenvalue.
	order := [3]int{0, 1, 2}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if evals[order[j]] > evals[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	var vSorted Mat3
	for newCol, oldCol := range order {
		vSorted = vSorted.SetCol(newCol, v.Col(oldCol))
		sv := evals[oldCol]
		if sv < 0 {
			sv = 0
		}
		sigma[newCol] = math.Sqrt(sv)
	}
	v = vSorted

	// U's columns are A*v_i / sigma_i for nonzero sigma_i; for
	// near-zero singular values, complete U to an orthonormal basis via
	// Gram-Schmidt against the columns already fixed.
	var uCols [3][3]float64
	for i := 0; i < 3; i++ {
		if sigma[i] > 1e-12 {
			col := a.MulVec(v.Col(i))
			uCols[i] = vecScale(col, 1/sigma[i])
		}
	}
	for i := 0; i < 3; i++ {
		if sigma[i] > 1e-12 {
			continue
		}
		cand := [3]float64{1, 0, 0}
		if math.Abs(cand[0]) > 0.9 {
			cand = [3]float64{0, 1, 0}
		}
		for j := 0; j < i; j++ {
			cand = vecSub(cand, vecScale(uCols[j], vecDot(cand, uCols[j])))
		}
		n := vecNorm(cand)
		if n < 1e-9 {
			cand = vecCross(uCols[0], uCols[1])
			n = vecNorm(cand)
		}
		uCols[i] = vecScale(cand, 1/n)
	}

	for c := 0; c < 3; c++ {
		u = u.SetCol(c, uCols[c])
	}
	return u, sigma, v
}
