package quad

import (
	"math"
	"testing"

	"github.com/benlenarts/apriltag-go/internal/clustermap"
)

func TestAngularKey_MonotonicOverOneCycle(t *testing.T) {
	// Sample points evenly around a circle and check the key sequence is
	// non-decreasing as the angle increases, wrapping once at the end.
	const n = 64
	var prev float64 = -1
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / n
		dx := math.Cos(theta)
		dy := math.Sin(theta)
		key := angularKey(dx, dy)
		if key < 0 || key >= 4 {
			t.Fatalf("key %v out of [0,4) range at theta=%v", key, theta)
		}
		if i > 0 && key < prev {
			t.Fatalf("key decreased at i=%d: prev=%v cur=%v", i, prev, key)
		}
		prev = key
	}
}

func TestAngularSort_OrdersPointsAroundCentroid(t *testing.T) {
	pts := []point{
		{x: 1, y: 0},
		{x: 0, y: 1},
		{x: -1, y: 0},
		{x: 0, y: -1},
		{x: 0.7, y: 0.7},
		{x: -0.7, y: 0.7},
	}
	angularSort(pts, 0, 0)
	keys := make([]float64, len(pts))
	for i, p := range pts {
		keys[i] = angularKey(p.x, p.y)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] < keys[i-1] {
			t.Fatalf("not sorted at %d: %v < %v", i, keys[i], keys[i-1])
		}
	}
}

func TestBuildMoments_RangeEqualsSubtraction(t *testing.T) {
	pts := []point{
		{x: 0, y: 0, gx: 255, gy: 0},
		{x: 1, y: 0, gx: 0, gy: 255},
		{x: 1, y: 1, gx: 255, gy: 255},
		{x: 0, y: 1, gx: 0, gy: 0},
	}
	m := buildMoments(pts, nil)
	if len(m) != len(pts)+1 {
		t.Fatalf("expected %d entries, got %d", len(pts)+1, len(m))
	}
	full := subMoments(m[0], m[4])
	split := subMoments(m[0], m[2])
	rest := subMoments(m[2], m[4])
	got := Moments{
		W:   split.W + rest.W,
		Mx:  split.Mx + rest.Mx,
		My:  split.My + rest.My,
		Mxx: split.Mxx + rest.Mxx,
		Mxy: split.Mxy + rest.Mxy,
		Myy: split.Myy + rest.Myy,
	}
	if math.Abs(got.W-full.W) > 1e-9 || math.Abs(got.Mx-full.Mx) > 1e-9 {
		t.Fatalf("range subtraction mismatch: got %+v want %+v", got, full)
	}
}

func TestFitLine_HorizontalPoints(t *testing.T) {
	pts := []point{
		{x: 0, y: 0, gx: 0, gy: 255},
		{x: 1, y: 0, gx: 0, gy: 255},
		{x: 2, y: 0, gx: 0, gy: 255},
		{x: 3, y: 0, gx: 0, gy: 255},
	}
	m := buildMoments(pts, nil)
	full := subMoments(m[0], m[4])
	line := fitLine(full)
	if math.Abs(line.MSE) > 1e-9 {
		t.Fatalf("expected ~0 MSE for collinear points, got %v", line.MSE)
	}
	// normal should be vertical (perpendicular to the horizontal line).
	if math.Abs(line.Ny) < 0.99 {
		t.Fatalf("expected normal ~(0,+-1), got (%v,%v)", line.Nx, line.Ny)
	}
}

func TestIntersect_SquareCorners(t *testing.T) {
	bottom := Line{Cx: 0, Cy: 0, Nx: 0, Ny: 1}
	right := Line{Cx: 10, Cy: 0, Nx: 1, Ny: 0}
	x, y, ok := intersect(bottom, right)
	if !ok {
		t.Fatal("expected non-parallel intersection")
	}
	if math.Abs(x-10) > 1e-9 || math.Abs(y-0) > 1e-9 {
		t.Fatalf("expected (10,0), got (%v,%v)", x, y)
	}
}

func TestIntersect_ParallelRejected(t *testing.T) {
	a := Line{Cx: 0, Cy: 0, Nx: 1, Ny: 0}
	b := Line{Cx: 5, Cy: 0, Nx: 1, Ny: 0}
	_, _, ok := intersect(a, b)
	if ok {
		t.Fatal("expected parallel lines to be rejected")
	}
}

func TestShoelaceArea_UnitSquareCCW(t *testing.T) {
	c := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	area := shoelaceArea(c)
	if math.Abs(area-1) > 1e-9 {
		t.Fatalf("expected area 1, got %v", area)
	}
}

func TestEnsureCCW_ReversesClockwise(t *testing.T) {
	cw := [4][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	ccw, area := ensureCCW(cw)
	if area <= 0 {
		t.Fatalf("expected positive area after reversal, got %v", area)
	}
	if shoelaceArea(ccw) < 0 {
		t.Fatal("result still clockwise")
	}
}

func TestIsConvex_SquareIsConvex(t *testing.T) {
	sq := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if !isConvex(sq) {
		t.Fatal("square should be convex")
	}
}

func TestIsConvex_DartIsNotConvex(t *testing.T) {
	dart := [4][2]float64{{0, 0}, {2, 0}, {1, 1}, {2, 2}}
	if isConvex(dart) {
		t.Fatal("dart shape should not be convex")
	}
}

// syntheticSquareCluster builds a ring of boundary points approximating
// the edges of an axis-aligned square of the given half-size centered at
// (cx, cy), with gradients pointing outward, so FitQuad has a clean
// cluster to work with.
func syntheticSquareCluster(cx, cy, half float64, perSide int) []clustermap.EdgePoint {
	var pts []clustermap.EdgePoint
	add := func(x, y float64, gx, gy int16) {
		pts = append(pts, clustermap.EdgePoint{
			X:  int16(math.Round(x * 2)),
			Y:  int16(math.Round(y * 2)),
			GX: gx,
			GY: gy,
		})
	}
	for i := 0; i < perSide; i++ {
		t := float64(i) / float64(perSide)
		// top edge: gradient points up (outward, -y)
		add(cx-half+2*half*t, cy-half, 0, -255)
		// bottom edge: gradient points down (+y)
		add(cx-half+2*half*t, cy+half, 0, 255)
		// left edge: gradient points left (-x)
		add(cx-half, cy-half+2*half*t, -255, 0)
		// right edge: gradient points right (+x)
		add(cx+half, cy-half+2*half*t, 255, 0)
	}
	return pts
}

func TestFitQuad_SyntheticSquare(t *testing.T) {
	pts := syntheticSquareCluster(50, 50, 20, 10)
	p := Params{
		MinClusterPixels: 5,
		ImgWidth:         100,
		ImgHeight:        100,
		MaxNMaxima:       10,
		CosCriticalRad:   0.9848,
		MaxLineFitMSE:    10.0,
		MinTagWidthPx:    3,
		QuadDecimate:     1,
	}
	q, ok := FitQuad(pts, p, &Scratch{})
	if !ok {
		t.Fatal("expected a quad to be fit for a clean synthetic square")
	}
	area := shoelaceArea([4][2]float64{
		{float64(q.Corners[0][0]), float64(q.Corners[0][1])},
		{float64(q.Corners[1][0]), float64(q.Corners[1][1])},
		{float64(q.Corners[2][0]), float64(q.Corners[2][1])},
		{float64(q.Corners[3][0]), float64(q.Corners[3][1])},
	})
	if area < 0 {
		t.Fatalf("expected CCW (positive area) quad, got area=%v", area)
	}
	// Roughly the 40x40 square, allow generous tolerance from the local
	// maxima / combination search approximation.
	if area < 400 {
		t.Fatalf("expected area roughly 1600, got %v (too small to be the square)", area)
	}
}

func TestFitQuad_RejectsTooFewPoints(t *testing.T) {
	pts := syntheticSquareCluster(50, 50, 20, 3)[:10]
	p := Params{MinClusterPixels: 25, ImgWidth: 100, ImgHeight: 100, MaxNMaxima: 10, CosCriticalRad: 0.9848, MaxLineFitMSE: 10, MinTagWidthPx: 3, QuadDecimate: 1}
	_, ok := FitQuad(pts, p, &Scratch{})
	if ok {
		t.Fatal("expected rejection for too few points")
	}
}
