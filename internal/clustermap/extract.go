package clustermap

import (
	"github.com/benlenarts/apriltag-go/internal/imagebuf"
	"github.com/benlenarts/apriltag-go/internal/unionfind"
)

// minOwnComponentPixels is the hardcoded lower bound (spec.md §4.G) on
// the size of the component a candidate boundary pixel itself belongs
// to, independent of the configurable minClusterPixels applied to its
// neighbor's component.
const minOwnComponentPixels = 25

// neighborOffsets are the four directions inspected for a polarity
// boundary at each pixel (spec.md §4.G).
var neighborOffsets = [4][2]int{{1, 0}, {0, 1}, {-1, 1}, {1, 1}}

// RawPoint pairs an extracted boundary point with the 64-bit id of the
// pair of component roots it straddles, in scan order.
type RawPoint struct {
	id uint64
	pt EdgePoint
}

// Extract scans img (a ternary 0/127/255 image) and uf (its connected
// components, already labeled) for boundary points, appending raw
// extraction results into the reusable scratch slice raw (truncated to
// zero length by the caller beforehand) and returning the extended
// slice. minClusterPixels is the configurable neighbor-component size
// floor (spec.md's "min_cluster_pixels", default 5); the pixel's own
// component must independently have at least minOwnComponentPixels (25,
// hardcoded).
func Extract(img *imagebuf.Image, uf *unionfind.UnionFind, minClusterPixels int, raw []RawPoint) []RawPoint {
	w, h := img.Width, img.Height

	for y := 0; y < h; y++ {
		row := img.Row(y)
		for x := 0; x < w; x++ {
			v := row[x]
			if v == 127 {
				continue
			}
			node := uint32(y*w + x)
			if uf.ConnectedSize(node) < minOwnComponentPixels {
				continue
			}

			for _, off := range neighborOffsets {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				v1 := img.At(nx, ny)
				if v1 == 127 {
					continue
				}
				if int(v)+int(v1) != 255 {
					continue
				}
				nNode := uint32(ny*w + nx)
				if uf.ConnectedSize(nNode) < uint32(minClusterPixels) {
					continue
				}

				r0 := uf.Find(node)
				r1 := uf.Find(nNode)
				a, b := r0, r1
				if a > b {
					a, b = b, a
				}
				id := (uint64(a) << 32) | uint64(b)

				dx, dy := off[0], off[1]
				grad := int(v1) - int(v)
				raw = append(raw, RawPoint{
					id: id,
					pt: EdgePoint{
						X:  int16(2*x + dx),
						Y:  int16(2*y + dy),
						GX: int16(dx * grad),
						GY: int16(dy * grad),
					},
				})
			}
		}
	}
	return raw
}
