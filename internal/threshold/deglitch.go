package threshold

import "github.com/benlenarts/apriltag-go/internal/imagebuf"

// Deglitch applies a morphological close (3x3 dilate then 3x3 erode) to
// img in place, restricted to the {0, 255} channels — pixels classified
// Unknown are left untouched and do not participate in either pass.
// scratch, if non-nil and matching img's dimensions, is reused for the
// intermediate dilated image.
func Deglitch(img *imagebuf.Image, scratch *imagebuf.Image) (*imagebuf.Image, error) {
	if scratch == nil || scratch.Width != img.Width || scratch.Height != img.Height {
		var err error
		scratch, err = imagebuf.New(img.Width, img.Height)
		if err != nil {
			return nil, err
		}
	}

	dilateClose(img, scratch)
	erodeClose(scratch, img)
	return img, nil
}

// dilateClose sets dst(x,y) to 255 if any non-Unknown neighbor in the 3x3
// window around (x,y) in src is 255; otherwise 0 if any neighbor is 0;
// otherwise Unknown is preserved.
func dilateClose(src, dst *imagebuf.Image) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			v := src.At(x, y)
			if v == Unknown {
				dst.Set(x, y, Unknown)
				continue
			}
			found255 := false
			for dy := -1; dy <= 1 && !found255; dy++ {
				ny := y + dy
				if ny < 0 || ny >= src.Height {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= src.Width {
						continue
					}
					if src.At(nx, ny) == 255 {
						found255 = true
						break
					}
				}
			}
			if found255 {
				dst.Set(x, y, 255)
			} else {
				dst.Set(x, y, v)
			}
		}
	}
}

// erodeClose sets dst(x,y) to 0 if any non-Unknown neighbor in the 3x3
// window around (x,y) in src is 0; otherwise preserves src's value.
func erodeClose(src, dst *imagebuf.Image) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			v := src.At(x, y)
			if v == Unknown {
				dst.Set(x, y, Unknown)
				continue
			}
			found0 := false
			for dy := -1; dy <= 1 && !found0; dy++ {
				ny := y + dy
				if ny < 0 || ny >= src.Height {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= src.Width {
						continue
					}
					if src.At(nx, ny) == 0 {
						found0 = true
						break
					}
				}
			}
			if found0 {
				dst.Set(x, y, 0)
			} else {
				dst.Set(x, y, v)
			}
		}
	}
}
