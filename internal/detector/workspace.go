package detector

import (
	"github.com/benlenarts/apriltag-go/internal/clustermap"
	"github.com/benlenarts/apriltag-go/internal/imagebuf"
	"github.com/benlenarts/apriltag-go/internal/quad"
	"github.com/benlenarts/apriltag-go/internal/threshold"
	"github.com/benlenarts/apriltag-go/internal/unionfind"
)

// Workspace owns every buffer the detection pipeline reuses across
// calls (spec.md §4.N): every growing buffer is cleared to length zero
// before each detection but never shrunk, so these buffers are not
// reallocated on equal-sized frames. Detection still allocates on every
// call: the returned slice, the per-call candidate and result lists, and
// temporaries inside stages such as edge refinement and decoding.
type Workspace struct {
	decimated   *imagebuf.Image
	blurScratch *imagebuf.Image
	thresholded *imagebuf.Image
	deglitchTmp *imagebuf.Image

	thresholdWS threshold.Workspace
	uf          *unionfind.UnionFind

	rawPoints []clustermap.RawPoint
	clusters  clustermap.Map

	quadScratch quad.Scratch

	quads      []quad.Quad
	detections []Detection
}

// NewWorkspace returns an empty, ready-to-use workspace.
func NewWorkspace() *Workspace {
	return &Workspace{uf: unionfind.New(0)}
}

// reset clears the per-detection accumulation buffers (length 0,
// capacity retained). Fixed-size scratch (thresholdWS, per-tile
// buffers) is resized lazily by the stage that owns it.
func (w *Workspace) reset() {
	w.rawPoints = w.rawPoints[:0]
	w.quads = w.quads[:0]
	w.detections = w.detections[:0]
}
