package decode

import (
	"math"
	"testing"

	"github.com/benlenarts/apriltag-go/internal/family"
	"github.com/benlenarts/apriltag-go/internal/homography"
	"github.com/benlenarts/apriltag-go/internal/imagebuf"
)

func TestFitGrayModel_ConstantImage(t *testing.T) {
	xs := []float64{-1, 1, -1, 1}
	ys := []float64{-1, -1, 1, 1}
	vals := []float64{200, 200, 200, 200}
	m := fitGrayModel(xs, ys, vals)
	if math.Abs(m.eval(0, 0)-200) > 1e-6 {
		t.Fatalf("expected constant model to evaluate to 200 everywhere, got %v", m.eval(0, 0))
	}
}

func TestExtractCode_AllWhiteGivesAllOnes(t *testing.T) {
	values := []float64{1, 1, 1, 1}
	code, margin := extractCode(values)
	if code != 0b1111 {
		t.Fatalf("expected 0b1111, got %b", code)
	}
	if margin != 0 {
		t.Fatalf("expected zero margin with no black bits, got %v", margin)
	}
}

func TestExtractCode_MixedBits(t *testing.T) {
	values := []float64{1, -1, 1, -1}
	code, _ := extractCode(values)
	if code != 0b1010 {
		t.Fatalf("expected 0b1010, got %b", code)
	}
}

func TestSharpen_ZeroCoefficientIsNoOp(t *testing.T) {
	codes := []uint64{0x1234}
	fam, err := family.NewSquareFamily("sharpen-test", 16, codes, 6, 8, false, 2)
	if err != nil {
		t.Fatal(err)
	}
	values := make([]float64, fam.NBits)
	for i := range values {
		values[i] = float64(i)
	}
	out := sharpen(fam, values, 0)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("expected sharpen with coefficient 0 to be a no-op at %d", i)
		}
	}
}

// renderTagSpaceFunc renders an image by, for each pixel, inverse-mapping
// through h into tag space and evaluating f there. This guarantees the
// rendered image is exactly consistent with whatever tag-space rule f
// encodes, at every point decode.go will later sample.
func renderTagSpaceFunc(t *testing.T, width, height int, h [9]float64, f func(tx, ty float64) byte) *imagebuf.Image {
	t.Helper()
	img, err := imagebuf.New(width, height)
	if err != nil {
		t.Fatal(err)
	}
	inv, ok := matInverse(h)
	if !ok {
		t.Fatal("expected invertible test homography")
	}
	for y := 0; y < height; y++ {
		row := img.Row(y)
		for x := 0; x < width; x++ {
			tx, ty := applyMat(inv, float64(x), float64(y))
			row[x] = f(tx, ty)
		}
	}
	return img
}

func matInverse(m [9]float64) ([9]float64, bool) {
	det := m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
	if det > -1e-12 && det < 1e-12 {
		return [9]float64{}, false
	}
	invDet := 1 / det
	var out [9]float64
	out[0] = (m[4]*m[8] - m[5]*m[7]) * invDet
	out[1] = (m[2]*m[7] - m[1]*m[8]) * invDet
	out[2] = (m[1]*m[5] - m[2]*m[4]) * invDet
	out[3] = (m[5]*m[6] - m[3]*m[8]) * invDet
	out[4] = (m[0]*m[8] - m[2]*m[6]) * invDet
	out[5] = (m[2]*m[3] - m[0]*m[5]) * invDet
	out[6] = (m[3]*m[7] - m[4]*m[6]) * invDet
	out[7] = (m[1]*m[6] - m[0]*m[7]) * invDet
	out[8] = (m[0]*m[4] - m[1]*m[3]) * invDet
	return out, true
}

func applyMat(m [9]float64, x, y float64) (float64, float64) {
	w := m[6]*x + m[7]*y + m[8]
	return (m[0]*x + m[1]*y + m[2]) / w, (m[3]*x + m[4]*y + m[5]) / w
}

func TestDecode_SyntheticTagExactCode(t *testing.T) {
	codes := []uint64{0x1234, 0x5678}
	fam, err := family.NewSquareFamily("test16", 16, codes, 10, 12, false, 2)
	if err != nil {
		t.Fatal(err)
	}
	const codeIndex = 1
	code := fam.Codes[codeIndex]

	bitAt := make(map[[2]int]bool, fam.NBits)
	for i := 0; i < fam.NBits; i++ {
		v := (code >> uint(fam.NBits-1-i)) & 1
		bitAt[[2]int{fam.BitX[i], fam.BitY[i]}] = v == 1
	}

	halfWidthAtBorder := float64(fam.WidthAtBorder) / 2
	cell := 2.0 / float64(fam.TotalWidth)

	tagValue := func(tx, ty float64) byte {
		gx := int(math.Round(tx / cell))
		gy := int(math.Round(ty / cell))
		if white, ok := bitAt[[2]int{gx, gy}]; ok {
			if white {
				return 255
			}
			return 0
		}
		// Outside the bit grid: border ring is black up to half-width-at-border,
		// quiet zone beyond that is white.
		if math.Abs(tx)/cell <= halfWidthAtBorder && math.Abs(ty)/cell <= halfWidthAtBorder {
			return 0
		}
		return 255
	}

	h, ok := homography.Fit([4][2]float64{
		{20, 20}, {180, 20}, {180, 180}, {20, 180},
	})
	if !ok {
		t.Fatal("expected solvable test homography")
	}

	img := renderTagSpaceFunc(t, 200, 200, h, tagValue)

	result, ok := Decode(img, h, fam, 0)
	if !ok {
		t.Fatal("expected a successful decode")
	}
	if result.CodeIndex != codeIndex {
		t.Fatalf("expected code index %d, got %d", codeIndex, result.CodeIndex)
	}
	if result.Hamming != 0 {
		t.Fatalf("expected hamming 0, got %d", result.Hamming)
	}
	if result.Rotation != 0 {
		t.Fatalf("expected rotation 0, got %d", result.Rotation)
	}
}

