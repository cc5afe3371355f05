package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/benlenarts/apriltag-go/internal/imagebuf"
)

// loadGrayscalePNG decodes a PNG file and converts it to the detector's
// 8-bit grayscale buffer via the standard luminance formula.
func loadGrayscalePNG(path string) (*imagebuf.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	img, err := imagebuf.New(w, h)
	if err != nil {
		return nil, err
	}

	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, src.At(x, y))
		}
	}

	for y := 0; y < h; y++ {
		row := img.Row(y)
		srcRow := gray.Pix[(y)*gray.Stride : (y)*gray.Stride+w]
		copy(row, srcRow)
	}
	return img, nil
}
