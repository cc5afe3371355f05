// Package quad implements the quad fitter (spec.md §4.H): per-cluster
// size filtering, border-orientation classification, angular sorting,
// cumulative-moment line fitting, local-maxima segmentation, exhaustive
// four-combination corner search, corner intersection, and the final
// shape validation that turns a boundary-point cluster into a
// four-cornered tag candidate. It also implements the optional edge
// refinement pass (§4.I) that sharpens corners against the original,
// undecimated image.
package quad

// Quad is a candidate four-sided tag outline: four corners in
// counter-clockwise winding, in original (undecimated) pixel space once
// refinement has run, plus the cluster's detected border polarity.
type Quad struct {
	Corners        [4][2]float32
	ReversedBorder bool
}

// Params bundles the configuration and image-geometry values the fitter
// needs per spec.md §6 and §4.H/§4.I.
type Params struct {
	MinClusterPixels int
	ImgWidth         int
	ImgHeight        int
	MaxNMaxima       int
	CosCriticalRad   float64
	MaxLineFitMSE    float64
	MinTagWidthPx    float64 // max(3, smallest family total_width / quad_decimate)
	QuadDecimate     float64
}

// maxClusterPixels returns spec.md §4.H's upper size bound,
// 2*(2w+2h), for the current image geometry.
func (p Params) maxClusterPixels() int {
	return 2 * (2*p.ImgWidth + 2*p.ImgHeight)
}
