// Package components implements connected-component labeling over a
// ternary (black/white/unknown) image, with asymmetric 4/8-connectivity:
// black pixels use 4-connectivity, white pixels use 8-connectivity, so
// that a single diagonal background pixel cannot bridge two otherwise
// distinct black tag interiors.
package components

import (
	"github.com/benlenarts/apriltag-go/internal/imagebuf"
	"github.com/benlenarts/apriltag-go/internal/unionfind"
)

// Label runs connected-component labeling over img (values 0, 127, 255)
// and unions same-valued neighboring pixels into uf, which must already
// be Reset to img.Width*img.Height nodes. Pixel (x, y) maps to node
// index y*img.Width+x. Value-127 (unknown) pixels are skipped entirely
// and never joined to any component.
func Label(img *imagebuf.Image, uf *unionfind.UnionFind) {
	w := img.Width
	idx := func(x, y int) uint32 { return uint32(y*w + x) }

	for y := 0; y < img.Height; y++ {
		row := img.Row(y)
		for x := 0; x < w; x++ {
			v := row[x]
			if v == 127 {
				continue
			}

			mergedViaUpLeft := false

			// Left neighbor, same value.
			if x > 0 && row[x-1] == v {
				uf.Union(idx(x, y), idx(x-1, y))
			}

			// Up neighbor, same value, unless already connected via
			// left+upper-left (redundant-path skip).
			if y > 0 {
				upRow := img.Row(y - 1)
				if x > 0 && row[x-1] == v && upRow[x-1] == v {
					mergedViaUpLeft = true
				}
				if upRow[x] == v && !mergedViaUpLeft {
					uf.Union(idx(x, y), idx(x, y-1))
				}
			}

			// White pixels additionally get 8-connectivity via the two
			// diagonal neighbors, each skipped if already connected
			// through a shared orthogonal neighbor.
			if v == 255 && y > 0 {
				upRow := img.Row(y - 1)
				if x > 0 && upRow[x-1] == v {
					redundant := (x > 0 && row[x-1] == v) || upRow[x] == v
					if !redundant {
						uf.Union(idx(x, y), idx(x-1, y-1))
					}
				}
				if x+1 < w && upRow[x+1] == v {
					redundant := upRow[x] == v || (x+1 < w && row[x+1] == v && upRow[x+1] == v)
					if !redundant {
						uf.Union(idx(x, y), idx(x+1, y-1))
					}
				}
			}
		}
	}
}

// NodeIndex returns the union-find node index for pixel (x, y) in an
// image of the given width.
func NodeIndex(x, y, width int) uint32 {
	return uint32(y*width + x)
}
