package preprocess

import (
	"math"

	"github.com/benlenarts/apriltag-go/internal/imagebuf"
)

// GaussianKernel builds a normalized 1-D Gaussian kernel for standard
// deviation sigma. Kernel size is 4*sigma rounded up to the nearest odd
// integer, at least 3.
func GaussianKernel(sigma float64) []float64 {
	size := int(math.Ceil(4 * sigma))
	if size < 3 {
		size = 3
	}
	if size%2 == 0 {
		size++
	}
	half := size / 2

	k := make([]float64, size)
	sum := 0.0
	for i := -half; i <= half; i++ {
		v := math.Exp(-0.5 * float64(i*i) / (sigma * sigma))
		k[i+half] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// BlurUnsharp applies the preprocess blur stage in place on src.
//
//   - quadSigma == 0: no-op.
//   - quadSigma > 0: separable Gaussian blur with sigma = quadSigma.
//   - quadSigma < 0: unsharp mask with sigma = -quadSigma; each pixel
//     becomes clamp(2*original - blurred, 0, 255).
//
// scratch, if non-nil and matching src's dimensions, is reused as
// intermediate storage for the horizontal pass instead of allocating.
func BlurUnsharp(src *imagebuf.Image, quadSigma float64, scratch *imagebuf.Image) (*imagebuf.Image, error) {
	if quadSigma == 0 {
		return src, nil
	}
	sigma := math.Abs(quadSigma)
	kernel := GaussianKernel(sigma)
	half := len(kernel) / 2

	if scratch == nil || scratch.Width != src.Width || scratch.Height != src.Height {
		var err error
		scratch, err = imagebuf.New(src.Width, src.Height)
		if err != nil {
			return nil, err
		}
	}

	// Horizontal pass: src -> scratch.
	for y := 0; y < src.Height; y++ {
		srow := src.Row(y)
		drow := scratch.Row(y)
		for x := 0; x < src.Width; x++ {
			sum := 0.0
			for k := -half; k <= half; k++ {
				xc := clamp(x+k, 0, src.Width-1)
				sum += float64(srow[xc]) * kernel[k+half]
			}
			drow[x] = clampByte(sum)
		}
	}

	// Vertical pass: scratch -> blurred (written back into src's buffer,
	// or quadSigma < 0 computes unsharp against the original first).
	blurred := src
	if quadSigma < 0 {
		out, err := imagebuf.New(src.Width, src.Height)
		if err != nil {
			return nil, err
		}
		blurred = out
	}

	for y := 0; y < src.Height; y++ {
		drow := blurred.Row(y)
		for x := 0; x < src.Width; x++ {
			sum := 0.0
			for k := -half; k <= half; k++ {
				yc := clamp(y+k, 0, src.Height-1)
				sum += float64(scratch.Row(yc)[x]) * kernel[k+half]
			}
			if quadSigma < 0 {
				orig := float64(src.Row(y)[x])
				drow[x] = clampByte(2*orig - sum)
			} else {
				drow[x] = clampByte(sum)
			}
		}
	}

	if quadSigma < 0 {
		return blurred, nil
	}
	return src, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}
