package numeric

import (
	"math"
	"testing"
)

func TestEigenSym2x2_Diagonal(t *testing.T) {
	lmax, lmin, _, _ := EigenSym2x2(5, 0, 2)
	if lmax != 5 || lmin != 2 {
		t.Errorf("got (%v, %v), want (5, 2)", lmax, lmin)
	}
}

func TestEigenSym2x2_ReconstructsMatrix(t *testing.T) {
	cxx, cxy, cyy := 4.0, 1.5, 3.0
	lmax, lmin, vMax, vMin := EigenSym2x2(cxx, cxy, cyy)

	// U * Lambda * U^T should reconstruct C to high precision.
	r00 := vMax[0]*lmax*vMax[0] + vMin[0]*lmin*vMin[0]
	r01 := vMax[0]*lmax*vMax[1] + vMin[0]*lmin*vMin[1]
	r11 := vMax[1]*lmax*vMax[1] + vMin[1]*lmin*vMin[1]

	if math.Abs(r00-cxx) > 1e-9 || math.Abs(r01-cxy) > 1e-9 || math.Abs(r11-cyy) > 1e-9 {
		t.Errorf("reconstruction (%v, %v, %v) != original (%v, %v, %v)", r00, r01, r11, cxx, cxy, cyy)
	}
}

func TestEigenSym2x2_OrderedDescending(t *testing.T) {
	lmax, lmin, _, _ := EigenSym2x2(1, 2, 1)
	if lmax < lmin {
		t.Errorf("lambdaMax %v < lambdaMin %v", lmax, lmin)
	}
}
