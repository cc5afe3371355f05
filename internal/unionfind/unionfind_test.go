package unionfind

import "testing"

func TestUnionFind_FindOnFreshSetIsSelf(t *testing.T) {
	uf := New(10)
	for i := uint32(0); i < 10; i++ {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}
}

func TestUnionFind_UnionMakesFindEqual(t *testing.T) {
	uf := New(10)
	uf.Union(1, 2)
	uf.Union(2, 3)
	if uf.Find(1) != uf.Find(3) {
		t.Errorf("Find(1)=%d != Find(3)=%d after unioning 1-2-3", uf.Find(1), uf.Find(3))
	}
}

func TestUnionFind_ConnectedSize(t *testing.T) {
	uf := New(10)
	uf.Union(0, 1)
	uf.Union(1, 2)
	if s := uf.ConnectedSize(0); s != 3 {
		t.Errorf("ConnectedSize(0) = %d, want 3", s)
	}
	if s := uf.ConnectedSize(5); s != 1 {
		t.Errorf("ConnectedSize(5) = %d, want 1", s)
	}
}

func TestUnionFind_PathHalvingKeepsInvariant(t *testing.T) {
	uf := New(6)
	// Union 0-1, 1-2, ..., 4-5 in turn; weighted union hangs each new
	// singleton directly under the growing set's root.
	for i := 0; i < 5; i++ {
		uf.Union(uint32(i), uint32(i+1))
	}
	root := uf.Find(0)
	for i := uint32(0); i < 6; i++ {
		if uf.Find(i) != root {
			t.Errorf("Find(%d) = %d, want root %d", i, uf.Find(i), root)
		}
		// After any Find, parent[x] is either x or on the path to a root.
		p := uf.parent[i]
		if p != i {
			if uf.Find(p) != root {
				t.Errorf("parent[%d] = %d is not on the path to root", i, p)
			}
		}
	}
}

func TestUnionFind_ResetReusesCapacity(t *testing.T) {
	uf := New(4)
	uf.Union(0, 1)
	oldCap := cap(uf.parent)
	uf.Reset(4)
	if cap(uf.parent) != oldCap {
		t.Errorf("Reset changed capacity: %d -> %d", oldCap, cap(uf.parent))
	}
	if uf.Find(0) != 0 {
		t.Errorf("Find(0) after reset = %d, want 0", uf.Find(0))
	}
}
