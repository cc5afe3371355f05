package clustermap

import (
	"testing"

	"github.com/benlenarts/apriltag-go/internal/components"
	"github.com/benlenarts/apriltag-go/internal/imagebuf"
	"github.com/benlenarts/apriltag-go/internal/unionfind"
)

// bigCheckerboard builds a thresholded image with a large black square
// on a large white background, both well above the size floors, so a
// boundary is guaranteed to be extracted.
func bigCheckerboard(t *testing.T) (*imagebuf.Image, *unionfind.UnionFind) {
	t.Helper()
	img, err := imagebuf.New(20, 20)
	if err != nil {
		t.Fatal(err)
	}
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := 5; y < 15; y++ {
		row := img.Row(y)
		for x := 5; x < 15; x++ {
			row[x] = 0
		}
	}
	uf := unionfind.New(img.Width * img.Height)
	components.Label(img, uf)
	return img, uf
}

func TestExtract_FindsBoundaryBetweenLargeComponents(t *testing.T) {
	img, uf := bigCheckerboard(t)
	raw := Extract(img, uf, 5, nil)
	if len(raw) == 0 {
		t.Fatal("expected boundary points, got none")
	}
	for _, r := range raw {
		if r.pt.GX == 0 && r.pt.GY == 0 {
			t.Error("boundary point has zero gradient")
		}
	}
}

func TestExtract_SkipsUnknownPixels(t *testing.T) {
	img, err := imagebuf.New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := range img.Pix {
		img.Pix[i] = 127
	}
	uf := unionfind.New(img.Width * img.Height)
	components.Label(img, uf)
	raw := Extract(img, uf, 5, nil)
	if len(raw) != 0 {
		t.Errorf("expected no boundary points in an all-unknown image, got %d", len(raw))
	}
}

func TestExtract_ReusesScratchSlice(t *testing.T) {
	img, uf := bigCheckerboard(t)
	scratch := make([]RawPoint, 0, 4)
	raw := Extract(img, uf, 5, scratch)
	if len(raw) == 0 {
		t.Fatal("expected boundary points")
	}
}
