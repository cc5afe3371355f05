package family

import "fmt"

// NewSquareFamily builds a Family with an automatically generated,
// rotationally consistent bit layout, for use by synthetic-tag tests
// that need a real (family, code) pair without hand-authoring a bit
// table. Bit locations are placed as q = nbits/4 "seed" points along the
// positive x-axis at increasing radius (k+1, 0), each replicated at its
// three 90-degree rotations (y,-x); (x,y) -> (y,-x) is the same rotation
// rotate90 applies at the bit-index level, so a seed's four locations
// land on exactly the four group members rotate90 cycles together, and
// distinct seeds (distinct radii) never collide. If nbits is odd mod 4,
// one extra bit sits at the grid center (0,0), matching rotate90's
// fixed-center handling. The caller's totalWidth/widthAtBorder must
// leave enough room for radius q from the center.
func NewSquareFamily(name string, nbits int, codes []uint64, widthAtBorder, totalWidth int, reversedBorder bool, maxHamming int) (*Family, error) {
	q := nbits / 4
	rem := nbits % 4
	if rem != 0 && rem != 1 {
		return nil, fmt.Errorf("family %q: nbits=%d must be 0 or 1 mod 4", name, nbits)
	}

	bitX := make([]int, nbits)
	bitY := make([]int, nbits)

	for k := 0; k < q; k++ {
		x, y := k+1, 0
		pos := [4][2]int{{x, y}, {y, -x}, {-x, -y}, {-y, x}}
		for j := 0; j < 4; j++ {
			idx := k + j*q
			bitX[idx] = pos[j][0]
			bitY[idx] = pos[j][1]
		}
	}
	if rem == 1 {
		bitX[4*q] = 0
		bitY[4*q] = 0
	}

	return New(name, nbits, codes, bitX, bitY, widthAtBorder, totalWidth, reversedBorder, maxHamming)
}
