package preprocess

import (
	"testing"

	"github.com/benlenarts/apriltag-go/internal/imagebuf"
)

func TestDecimate_FactorOneCopies(t *testing.T) {
	src, _ := imagebuf.New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, byte(x+y*4))
		}
	}
	out, err := Decimate(src, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if out.At(x, y) != src.At(x, y) {
				t.Fatalf("mismatch at (%d,%d)", x, y)
			}
		}
	}
}

func TestDecimate_BlockAverage(t *testing.T) {
	src, _ := imagebuf.New(4, 4)
	// Top-left 2x2 block: 0,0,0,0 (avg 0). Top-right: 100,100,100,100 (avg 100).
	for y := 0; y < 2; y++ {
		for x := 2; x < 4; x++ {
			src.Set(x, y, 100)
		}
	}
	out, err := Decimate(src, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 2 || out.Height != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", out.Width, out.Height)
	}
	if out.At(0, 0) != 0 {
		t.Errorf("top-left block avg = %d, want 0", out.At(0, 0))
	}
	if out.At(1, 0) != 100 {
		t.Errorf("top-right block avg = %d, want 100", out.At(1, 0))
	}
}
