package components

import (
	"testing"

	"github.com/benlenarts/apriltag-go/internal/imagebuf"
	"github.com/benlenarts/apriltag-go/internal/unionfind"
)

func TestLabel_SkipsUnknownPixels(t *testing.T) {
	img, _ := imagebuf.New(3, 1)
	img.Set(0, 0, 0)
	img.Set(1, 0, 127)
	img.Set(2, 0, 0)

	uf := unionfind.New(3)
	Label(img, uf)

	if uf.Find(NodeIndex(0, 0, 3)) == uf.Find(NodeIndex(2, 0, 3)) {
		t.Error("components separated by an unknown pixel should not merge")
	}
}

func TestLabel_BlackUses4Connectivity(t *testing.T) {
	// Checkerboard of black pixels touching only diagonally must NOT merge.
	img, _ := imagebuf.New(2, 2)
	img.Set(0, 0, 0)
	img.Set(1, 1, 0)
	img.Set(1, 0, 255)
	img.Set(0, 1, 255)

	uf := unionfind.New(4)
	Label(img, uf)

	if uf.Find(NodeIndex(0, 0, 2)) == uf.Find(NodeIndex(1, 1, 2)) {
		t.Error("diagonal black pixels should not merge under 4-connectivity")
	}
}

func TestLabel_WhiteUses8Connectivity(t *testing.T) {
	img, _ := imagebuf.New(2, 2)
	img.Set(0, 0, 255)
	img.Set(1, 1, 255)
	img.Set(1, 0, 0)
	img.Set(0, 1, 0)

	uf := unionfind.New(4)
	Label(img, uf)

	if uf.Find(NodeIndex(0, 0, 2)) != uf.Find(NodeIndex(1, 1, 2)) {
		t.Error("diagonal white pixels should merge under 8-connectivity")
	}
}

func TestLabel_SolidBlockIsOneComponent(t *testing.T) {
	img, _ := imagebuf.New(4, 4)
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	uf := unionfind.New(16)
	Label(img, uf)

	root := uf.Find(NodeIndex(0, 0, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if uf.Find(NodeIndex(x, y, 4)) != root {
				t.Fatalf("pixel (%d,%d) not in the single component", x, y)
			}
		}
	}
	if uf.ConnectedSize(NodeIndex(0, 0, 4)) != 16 {
		t.Errorf("component size = %d, want 16", uf.ConnectedSize(NodeIndex(0, 0, 4)))
	}
}
