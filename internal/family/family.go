// Package family implements tag family records and the per-family
// quick-decode index (spec.md §4.K): a chunked prefix-sum index over all
// rotations of a family's codewords, supporting Hamming-bounded lookup.
//
// Family data itself (codeword tables, bit-location lists, layout
// metadata) is treated as an immutable, externally supplied record; this
// package additionally provides NewSquareFamily to construct small
// synthetic families for tests, since no family-data generator is part
// of this module's scope.
package family

import "fmt"

// Family is the immutable, read-only tag family record consumed by the
// detector: codeword table, bit sampling locations, and border layout
// metadata (spec.md §3).
type Family struct {
	Name           string
	NBits          int
	Codes          []uint64
	BitX, BitY     []int
	WidthAtBorder  int
	TotalWidth     int
	ReversedBorder bool

	index *QuickDecode
}

// New validates and wraps a tag family record, building its quick-decode
// index. maxHamming bounds the Hamming distance Lookup will accept.
func New(name string, nbits int, codes []uint64, bitX, bitY []int, widthAtBorder, totalWidth int, reversedBorder bool, maxHamming int) (*Family, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("family %q: empty codeword list", name)
	}
	if len(bitX) != nbits || len(bitY) != nbits {
		return nil, fmt.Errorf("family %q: bit location lists must have length nbits=%d, got %d/%d", name, nbits, len(bitX), len(bitY))
	}
	f := &Family{
		Name:           name,
		NBits:          nbits,
		Codes:          codes,
		BitX:           bitX,
		BitY:           bitY,
		WidthAtBorder:  widthAtBorder,
		TotalWidth:     totalWidth,
		ReversedBorder: reversedBorder,
	}
	f.index = buildQuickDecode(nbits, codes, maxHamming)
	return f, nil
}

// Lookup matches an observed nbits-wide code against this family's
// registered codewords, per spec.md §4.K.
func (f *Family) Lookup(code uint64) (Match, bool) {
	return f.index.Lookup(code)
}
