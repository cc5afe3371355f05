package clustermap

import "math/bits"

// emptySlot marks an unoccupied bucket in Map.slots.
const emptySlot = 0xFFFFFFFF

// knuthMultiplier is Knuth's multiplicative hash constant.
const knuthMultiplier = 2654435761

// Entry describes one cluster's span within Map.Points.
type Entry struct {
	ClusterID uint64
	Start     uint32
	Count     uint32
}

// Map is the flat, open-addressed hash map from cluster id to the
// contiguous run of EdgePoints belonging to that cluster. Load factor is
// kept at or below 0.5 by sizing slots to the next power of two at or
// above 2x the input point count, so no rehashing is needed mid-build.
type Map struct {
	Points  []EdgePoint
	Entries []Entry
	// Order lists Entries indices in canonical (slot index, insertion
	// order within slot) iteration order, per spec.md §4.G.
	Order []int
	slots []uint32
}

// Build constructs a Map from raw boundary points in scan order, via the
// two-pass open-addressed construction of spec.md §4.G: pass one counts
// points per cluster id (probing with Knuth multiplicative hashing);
// a prefix sum over per-slot counts yields each cluster's offset into a
// single contiguous Points array; pass two writes each point into its
// slot using a running per-cluster cursor. dst, if non-nil, has its
// backing arrays reused (grown, never shrunk) instead of allocating.
func Build(raw []RawPoint, dst *Map) *Map {
	if dst == nil {
		dst = &Map{}
	}

	n := len(raw)
	slotCount := nextPow2(maxInt(2, 2*n))
	dst.slots = growU32(dst.slots, slotCount)
	for i := range dst.slots {
		dst.slots[i] = emptySlot
	}
	dst.Entries = dst.Entries[:0]
	shift := uint(32 - bits.Len(uint(slotCount-1)))

	hash := func(id uint64) uint32 {
		low := uint32(id)
		return (low * knuthMultiplier) >> shift
	}

	// Pass 1: count points per cluster id.
	findOrInsert := func(id uint64) int {
		slot := hash(id)
		for {
			e := dst.slots[slot]
			if e == emptySlot {
				idx := len(dst.Entries)
				dst.Entries = append(dst.Entries, Entry{ClusterID: id})
				dst.slots[slot] = uint32(idx)
				return idx
			}
			if dst.Entries[e].ClusterID == id {
				return int(e)
			}
			slot = (slot + 1) % uint32(slotCount)
		}
	}

	for _, r := range raw {
		idx := findOrInsert(r.id)
		dst.Entries[idx].Count++
	}

	// Prefix sum in slot-index order: this is the canonical iteration
	// order (spec.md §4.G). Open addressing guarantees at most one entry
	// resolves to a given slot, so "insertion order within a slot" never
	// has more than one element to order.
	cursor := uint32(0)
	starts := make([]uint32, len(dst.Entries))
	dst.Order = dst.Order[:0]
	for _, e := range dst.slots {
		if e == emptySlot {
			continue
		}
		starts[e] = cursor
		dst.Entries[e].Start = cursor
		cursor += dst.Entries[e].Count
		dst.Order = append(dst.Order, int(e))
	}

	dst.Points = growEdgePoints(dst.Points, n)

	// Pass 2: place each point at its cluster's running cursor.
	fill := make([]uint32, len(dst.Entries))
	copy(fill, starts)
	for _, r := range raw {
		slot := hash(r.id)
		for dst.slots[slot] != emptySlot && dst.Entries[dst.slots[slot]].ClusterID != r.id {
			slot = (slot + 1) % uint32(slotCount)
		}
		e := dst.slots[slot]
		dst.Points[fill[e]] = r.pt
		fill[e]++
	}

	return dst
}

// ClusterPoints returns the points belonging to the entry at index i, in
// Map.Entries order.
func (m *Map) ClusterPoints(i int) []EdgePoint {
	e := m.Entries[i]
	return m.Points[e.Start : e.Start+e.Count]
}

// Len returns the number of distinct clusters.
func (m *Map) Len() int { return len(m.Entries) }

func nextPow2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func growU32(b []uint32, n int) []uint32 {
	if cap(b) < n {
		b = make([]uint32, n)
	}
	return b[:n]
}

func growEdgePoints(b []EdgePoint, n int) []EdgePoint {
	if cap(b) < n {
		b = make([]EdgePoint, n)
	}
	return b[:n]
}
