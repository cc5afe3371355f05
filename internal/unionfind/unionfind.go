// Package unionfind implements a flat-array disjoint-set structure with
// path halving and weighted union, as used by the connected-components
// stage to merge same-polarity pixel runs into components.
package unionfind

// uninitialized marks a parent slot that has never been touched by Reset
// followed by a find/union — in practice Reset always initializes every
// slot, so this sentinel exists for the zero-value UnionFind before its
// first Reset.
const uninitialized = 0xFFFFFFFF

// UnionFind is a flat disjoint-set over node indices [0, n). parent[i]
// == uninitialized means the slot has not been reset; parent[i] == i
// marks a root; size[root] stores the tree size minus one, so an
// uninitialized node and a singleton root both read size == 0.
type UnionFind struct {
	parent []uint32
	size   []uint32
}

// New constructs a UnionFind over n nodes, all initialized as singleton
// roots.
func New(n int) *UnionFind {
	uf := &UnionFind{}
	uf.Reset(n)
	return uf
}

// Reset resizes (if needed) and reinitializes the structure for n nodes,
// growing capacity by doubling rather than shrinking, per the
// workspace-reuse discipline: buffers are cleared, not reallocated,
// across frames of equal or smaller size.
func (uf *UnionFind) Reset(n int) {
	if cap(uf.parent) < n {
		newCap := cap(uf.parent)
		if newCap == 0 {
			newCap = n
		}
		for newCap < n {
			newCap *= 2
		}
		uf.parent = make([]uint32, newCap)
		uf.size = make([]uint32, newCap)
	}
	uf.parent = uf.parent[:n]
	uf.size = uf.size[:n]
	for i := 0; i < n; i++ {
		uf.parent[i] = uint32(i)
		uf.size[i] = 0
	}
}

// Find returns the root of x's set, halving the path to the root as it
// walks: every visited node's parent is replaced with its grandparent.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing a and b, attaching the smaller tree
// under the larger (ties attach b's root under a's root). Returns the
// resulting root.
func (uf *UnionFind) Union(a, b uint32) uint32 {
	ra := uf.Find(a)
	rb := uf.Find(b)
	if ra == rb {
		return ra
	}
	sa := uf.size[ra]
	sb := uf.size[rb]
	if sa < sb {
		ra, rb = rb, ra
		sa, sb = sb, sa
	}
	uf.parent[rb] = ra
	uf.size[ra] = sa + sb + 1
	return ra
}

// ConnectedSize returns the number of nodes in x's component.
func (uf *UnionFind) ConnectedSize(x uint32) uint32 {
	return uf.size[uf.Find(x)] + 1
}

// Len returns the number of nodes the structure currently covers.
func (uf *UnionFind) Len() int {
	return len(uf.parent)
}
