// Package threshold implements the adaptive tile-based thresholding
// stage: per-tile min/max, 3x3 tile-neighborhood dilate/erode, and
// per-pixel ternary classification into black (0), white (255), or
// unknown (127).
package threshold

import "github.com/benlenarts/apriltag-go/internal/imagebuf"

// TileSize is the fixed tile edge length in pixels (spec.md §4.D).
const TileSize = 4

// Unknown is the ternary value assigned to pixels whose tile contrast
// falls below minWhiteBlackDiff.
const Unknown = 127

// Workspace holds the per-tile min/max and dilated/eroded buffers reused
// across frames of the same tile-grid dimensions.
type Workspace struct {
	tw, th       int
	tileMin      []byte
	tileMax      []byte
	dilatedMax   []byte
	erodedMin    []byte
}

// reset (re)sizes the tile buffers for a tw x th grid, reusing capacity.
func (w *Workspace) reset(tw, th int) {
	n := tw * th
	w.tw, w.th = tw, th
	w.tileMin = growBytes(w.tileMin, n)
	w.tileMax = growBytes(w.tileMax, n)
	w.dilatedMax = growBytes(w.dilatedMax, n)
	w.erodedMin = growBytes(w.erodedMin, n)
}

func growBytes(b []byte, n int) []byte {
	if cap(b) < n {
		newCap := cap(b)
		if newCap == 0 {
			newCap = n
		}
		for newCap < n {
			newCap *= 2
		}
		b = make([]byte, newCap)
	}
	return b[:n]
}

// Threshold classifies src into a ternary image (0 / 127 / 255) written
// into dst, reusing ws's tile buffers. minWhiteBlackDiff is the minimum
// (dilated-max - eroded-min) tile contrast required to classify a pixel
// as black or white rather than unknown.
func Threshold(src *imagebuf.Image, minWhiteBlackDiff int, ws *Workspace, dst *imagebuf.Image) (*imagebuf.Image, error) {
	tw := (src.Width + TileSize - 1) / TileSize
	th := (src.Height + TileSize - 1) / TileSize
	ws.reset(tw, th)

	computeTileMinMax(src, tw, th, ws.tileMin, ws.tileMax)
	dilateTiles(ws.tileMax, tw, th, ws.dilatedMax)
	erodeTiles(ws.tileMin, tw, th, ws.erodedMin)

	if dst == nil || dst.Width != src.Width || dst.Height != src.Height {
		var err error
		dst, err = imagebuf.New(src.Width, src.Height)
		if err != nil {
			return nil, err
		}
	}

	for y := 0; y < src.Height; y++ {
		ty := y / TileSize
		srow := src.Row(y)
		drow := dst.Row(y)
		for x := 0; x < src.Width; x++ {
			tx := x / TileSize
			idx := ty*tw + tx
			M := int(ws.dilatedMax[idx])
			m := int(ws.erodedMin[idx])
			if M-m < minWhiteBlackDiff {
				drow[x] = Unknown
				continue
			}
			if int(srow[x]) > (m+M)/2 {
				drow[x] = 255
			} else {
				drow[x] = 0
			}
		}
	}
	return dst, nil
}

func computeTileMinMax(src *imagebuf.Image, tw, th int, tileMin, tileMax []byte) {
	for ty := 0; ty < th; ty++ {
		y0 := ty * TileSize
		y1 := y0 + TileSize
		if y1 > src.Height {
			y1 = src.Height
		}
		for tx := 0; tx < tw; tx++ {
			x0 := tx * TileSize
			x1 := x0 + TileSize
			if x1 > src.Width {
				x1 = src.Width
			}
			lo, hi := byte(255), byte(0)
			for y := y0; y < y1; y++ {
				row := src.Row(y)
				for x := x0; x < x1; x++ {
					v := row[x]
					if v < lo {
						lo = v
					}
					if v > hi {
						hi = v
					}
				}
			}
			tileMin[ty*tw+tx] = lo
			tileMax[ty*tw+tx] = hi
		}
	}
}

// dilateTiles writes, for each tile, the max over its 3x3 tile
// neighborhood (clamped at the grid edges) into dst.
func dilateTiles(src []byte, tw, th int, dst []byte) {
	for ty := 0; ty < th; ty++ {
		for tx := 0; tx < tw; tx++ {
			best := byte(0)
			for dy := -1; dy <= 1; dy++ {
				ny := clampIdx(ty+dy, th)
				for dx := -1; dx <= 1; dx++ {
					nx := clampIdx(tx+dx, tw)
					if v := src[ny*tw+nx]; v > best {
						best = v
					}
				}
			}
			dst[ty*tw+tx] = best
		}
	}
}

// erodeTiles writes, for each tile, the min over its 3x3 tile
// neighborhood (clamped at the grid edges) into dst.
func erodeTiles(src []byte, tw, th int, dst []byte) {
	for ty := 0; ty < th; ty++ {
		for tx := 0; tx < tw; tx++ {
			best := byte(255)
			for dy := -1; dy <= 1; dy++ {
				ny := clampIdx(ty+dy, th)
				for dx := -1; dx <= 1; dx++ {
					nx := clampIdx(tx+dx, tw)
					if v := src[ny*tw+nx]; v < best {
						best = v
					}
				}
			}
			dst[ty*tw+tx] = best
		}
	}
}

func clampIdx(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
