package family

import "math/bits"

// Match is a successful quick-decode lookup result: the index of the
// matched codeword, the rotation (number of 90-degree steps) that maps
// the codeword onto the observed code, and the Hamming distance between
// them.
type Match struct {
	CodeIndex int
	Rotation  int
	Hamming   int
}

// rotate90 implements the rotation spec.md §4.K calls for: nbits is
// partitioned into groups of four bit positions (k, k+q, k+2q, k+3q, for
// q = nbits/4); one rotation step cyclically advances each group by one
// slot. If nbits ≡ 1 (mod 4), the final bit is a fixed center, unchanged
// by rotation.
func rotate90(code uint64, nbits int) uint64 {
	q := nbits / 4
	var out uint64
	getBit := func(i int) uint64 {
		return (code >> uint(nbits-1-i)) & 1
	}
	setBit := func(dst *uint64, i int, v uint64) {
		*dst |= v << uint(nbits-1-i)
	}
	for k := 0; k < q; k++ {
		b0 := getBit(k)
		b1 := getBit(k + q)
		b2 := getBit(k + 2*q)
		b3 := getBit(k + 3*q)
		setBit(&out, k, b3)
		setBit(&out, k+q, b0)
		setBit(&out, k+2*q, b1)
		setBit(&out, k+3*q, b2)
	}
	if nbits%4 == 1 {
		center := 4 * q
		setBit(&out, center, getBit(center))
	}
	return out
}

// rotatedEntry is one inserted (possibly rotated) codeword.
type rotatedEntry struct {
	code      uint64
	codeIndex int
	rotation  int
}

// QuickDecode is the chunked prefix-sum index of spec.md §4.K: each
// codeword's four rotations are inserted once, keyed on four
// disjoint ceil(nbits/4)-bit chunks of the rotated value, so a lookup
// only needs to scan codewords sharing at least one chunk with the
// observed code.
type QuickDecode struct {
	nbits      int
	chunkSize  int
	capacity   int
	maxHamming int

	entries      []rotatedEntry
	chunkOffsets [4][]uint32
	chunkIDs     [4][]uint32 // indices into entries
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func buildQuickDecode(nbits int, codes []uint64, maxHamming int) *QuickDecode {
	chunkSize := ceilDiv(nbits, 4)
	capacity := 1 << uint(chunkSize)

	qd := &QuickDecode{
		nbits:      nbits,
		chunkSize:  chunkSize,
		capacity:   capacity,
		maxHamming: maxHamming,
	}

	qd.entries = make([]rotatedEntry, 0, len(codes)*4)
	for ci, code := range codes {
		c := code
		for r := 0; r < 4; r++ {
			qd.entries = append(qd.entries, rotatedEntry{code: c, codeIndex: ci, rotation: r})
			c = rotate90(c, nbits)
		}
	}

	shifts := [4]uint{0, uint(chunkSize), uint(2 * chunkSize), uint(3 * chunkSize)}
	mask := uint64(capacity - 1)

	for c := 0; c < 4; c++ {
		counts := make([]uint32, capacity+1)
		for _, e := range qd.entries {
			v := (e.code >> shifts[c]) & mask
			counts[v+1]++
		}
		for i := 1; i <= capacity; i++ {
			counts[i] += counts[i-1]
		}
		ids := make([]uint32, len(qd.entries))
		cursor := append([]uint32(nil), counts...)
		for idx, e := range qd.entries {
			v := (e.code >> shifts[c]) & mask
			ids[cursor[v]] = uint32(idx)
			cursor[v]++
		}
		qd.chunkOffsets[c] = counts
		qd.chunkIDs[c] = ids
	}

	return qd
}

// Lookup finds the registered codeword (across all rotations) nearest
// to code in Hamming distance, within maxHamming, per spec.md §4.K. Ties
// in Hamming distance are broken in favor of the lowest rotation index.
func (qd *QuickDecode) Lookup(code uint64) (Match, bool) {
	shifts := [4]uint{0, uint(qd.chunkSize), uint(2 * qd.chunkSize), uint(3 * qd.chunkSize)}
	mask := uint64(qd.capacity - 1)

	best := Match{Hamming: qd.maxHamming + 1}
	found := false
	seen := make(map[int]bool)

	for c := 0; c < 4; c++ {
		v := (code >> shifts[c]) & mask
		start := qd.chunkOffsets[c][v]
		end := qd.chunkOffsets[c][v+1]
		for i := start; i < end; i++ {
			entryIdx := qd.chunkIDs[c][i]
			if seen[int(entryIdx)] {
				continue
			}
			seen[int(entryIdx)] = true
			e := qd.entries[entryIdx]
			h := bits.OnesCount64(e.code ^ code)
			if h > qd.maxHamming {
				continue
			}
			if !found || h < best.Hamming || (h == best.Hamming && e.rotation < best.Rotation) {
				best = Match{CodeIndex: e.codeIndex, Rotation: e.rotation, Hamming: h}
				found = true
			}
		}
	}
	return best, found
}
