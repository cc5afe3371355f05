// Package preprocess implements the two image-conditioning stages that
// run before thresholding: block-average decimation and separable
// Gaussian blur / unsharp masking.
package preprocess

import (
	"math"

	"github.com/benlenarts/apriltag-go/internal/imagebuf"
)

// DecimationFactor rounds quadDecimate to the nearest integer factor,
// clamped to at least 1.
func DecimationFactor(quadDecimate float64) int {
	f := int(math.Round(quadDecimate))
	if f < 1 {
		f = 1
	}
	return f
}

// Decimate returns a new image whose pixel (x, y) is the integer mean of
// the f x f source block starting at (x*f, y*f). f == 1 returns a copy.
// dst, if non-nil and already sized w/f x h/f, is reused instead of
// allocating.
func Decimate(src *imagebuf.Image, f int, dst *imagebuf.Image) (*imagebuf.Image, error) {
	outW := src.Width / f
	outH := src.Height / f
	if outW == 0 || outH == 0 {
		outW, outH = 1, 1
	}

	if dst == nil || dst.Width != outW || dst.Height != outH {
		var err error
		dst, err = imagebuf.New(outW, outH)
		if err != nil {
			return nil, err
		}
	}

	if f == 1 {
		for y := 0; y < src.Height; y++ {
			copy(dst.Row(y), src.Row(y))
		}
		return dst, nil
	}

	area := f * f
	for oy := 0; oy < outH; oy++ {
		srow := oy * f
		for ox := 0; ox < outW; ox++ {
			scol := ox * f
			sum := 0
			for dy := 0; dy < f; dy++ {
				row := src.Row(srow + dy)
				for dx := 0; dx < f; dx++ {
					sum += int(row[scol+dx])
				}
			}
			dst.Set(ox, oy, byte(sum/area))
		}
	}
	return dst, nil
}
