package detector

import (
	"fmt"
	"log/slog"

	"github.com/benlenarts/apriltag-go/internal/clustermap"
	"github.com/benlenarts/apriltag-go/internal/components"
	"github.com/benlenarts/apriltag-go/internal/decode"
	"github.com/benlenarts/apriltag-go/internal/dedup"
	"github.com/benlenarts/apriltag-go/internal/family"
	"github.com/benlenarts/apriltag-go/internal/homography"
	"github.com/benlenarts/apriltag-go/internal/imagebuf"
	"github.com/benlenarts/apriltag-go/internal/numeric"
	"github.com/benlenarts/apriltag-go/internal/preprocess"
	"github.com/benlenarts/apriltag-go/internal/quad"
	"github.com/benlenarts/apriltag-go/internal/threshold"
)

// FamilyHamming pairs a tag family with the maximum Hamming distance the
// detector will accept when decoding against it (spec.md §6).
type FamilyHamming struct {
	Family     *family.Family
	MaxHamming int
}

// Detection is a single decoded tag (spec.md §3): an opaque reference to
// its family (name only, never a pointer into detector-owned state), the
// decoded id, match quality, and geometry.
type Detection struct {
	FamilyName     string
	ID             int
	Hamming        int
	DecisionMargin float64
	Homography     numeric.Mat3
	Center         [2]float64
	Corners        [4][2]float64
}

// Detector runs the full pipeline of spec.md §4.N against its own
// reusable Workspace. A Detector is safe for reuse across many Detect
// calls on equal- or varying-sized images; it is not safe for concurrent
// use from multiple goroutines (the Workspace is exclusively owned).
type Detector struct {
	cfg      Config
	families []FamilyHamming
	ws       *Workspace
	logger   *slog.Logger
}

// New constructs a Detector. families must be non-empty; each entry's
// family's quick-decode index must already be built for the entry's
// MaxHamming (family.New bakes the Hamming bound in at construction).
func New(cfg Config, families []FamilyHamming, logger *slog.Logger) (*Detector, error) {
	if len(families) == 0 {
		return nil, ErrEmptyFamilyList
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{cfg: cfg, families: families, ws: NewWorkspace(), logger: logger}, nil
}

// Detect runs stages C through M of the pipeline against a raw grayscale
// buffer (width, height, stride, pix), per spec.md §6. The only error
// class is the programmer-error class of §7: invalid dimensions or a
// buffer too short for stride*height.
func (d *Detector) Detect(width, height, stride int, pix []byte) ([]Detection, error) {
	img, err := imagebuf.Wrap(width, height, stride, pix)
	if err != nil {
		if width > 0 && height > 0 && width <= imagebuf.MaxDimension && height <= imagebuf.MaxDimension && stride >= width {
			return nil, fmt.Errorf("%w: %v", ErrBufferLength, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	return d.DetectImage(img)
}

// DetectImage runs the pipeline against an already-wrapped image.
func (d *Detector) DetectImage(img *imagebuf.Image) ([]Detection, error) {
	ws := d.ws
	ws.reset()
	d.logger.Debug("detect start", "width", img.Width, "height", img.Height)

	decimateFactor := preprocess.DecimationFactor(d.cfg.QuadDecimate)
	decimated, err := preprocess.Decimate(img, decimateFactor, ws.decimated)
	if err != nil {
		return nil, err
	}
	ws.decimated = decimated

	blurred, err := preprocess.BlurUnsharp(decimated, d.cfg.QuadSigma, ws.blurScratch)
	if err != nil {
		return nil, err
	}
	ws.blurScratch = blurred

	thresholded, err := threshold.Threshold(blurred, d.cfg.MinWhiteBlackDiff, &ws.thresholdWS, ws.thresholded)
	if err != nil {
		return nil, err
	}
	ws.thresholded = thresholded

	if d.cfg.Deglitch {
		deglitched, err := threshold.Deglitch(thresholded, ws.deglitchTmp)
		if err != nil {
			return nil, err
		}
		ws.deglitchTmp = deglitched
		ws.thresholded, ws.deglitchTmp = ws.deglitchTmp, ws.thresholded
		thresholded = ws.thresholded
	}

	ws.uf.Reset(thresholded.Width * thresholded.Height)
	components.Label(thresholded, ws.uf)

	ws.rawPoints = clustermap.Extract(thresholded, ws.uf, d.cfg.MinClusterPixels, ws.rawPoints)
	clustermap.Build(ws.rawPoints, &ws.clusters)

	d.logger.Debug("clusters extracted", "count", ws.clusters.Len())

	qp := quad.Params{
		MinClusterPixels: d.cfg.MinClusterPixels,
		ImgWidth:         thresholded.Width,
		ImgHeight:        thresholded.Height,
		MaxNMaxima:       d.cfg.MaxNMaxima,
		CosCriticalRad:   d.cfg.CosCriticalRad,
		MaxLineFitMSE:    d.cfg.MaxLineFitMSE,
		MinTagWidthPx:    d.minTagWidthPx(decimateFactor),
		QuadDecimate:     d.cfg.QuadDecimate,
	}

	for i := 0; i < ws.clusters.Len(); i++ {
		entryIdx := ws.clusters.Order[i]
		pts := ws.clusters.ClusterPoints(entryIdx)
		q, ok := quad.FitQuad(pts, qp, &ws.quadScratch)
		if !ok {
			continue
		}
		ws.quads = append(ws.quads, q)
	}

	candidates := make([]dedup.Candidate, 0, len(ws.quads))
	results := make([]Detection, 0, len(ws.quads))

	for _, q := range ws.quads {
		quad.ScaleToOriginal(&q, decimateFactor)
		if d.cfg.RefineEdges {
			quad.RefineEdges(img, &q, float64(decimateFactor))
		}

		corners := [4][2]float64{}
		for i, c := range q.Corners {
			corners[i] = [2]float64{float64(c[0]), float64(c[1])}
		}
		h, ok := homography.Fit(corners)
		if !ok {
			continue
		}

		for _, fh := range d.families {
			if fh.Family.ReversedBorder != q.ReversedBorder {
				continue
			}
			// The quad is the outer edge of the black border, which lies at
			// ±WidthAtBorder/TotalWidth in the tag space decode samples in.
			k := float64(fh.Family.TotalWidth) / float64(fh.Family.WidthAtBorder)
			decodeH := h.Mul(numeric.Mat3{k, 0, 0, 0, k, 0, 0, 0, 1})
			res, ok := decode.Decode(img, decodeH, fh.Family, d.cfg.DecodeSharpening)
			if !ok {
				continue
			}
			rotatedCorners := rotateCorners(corners, res.Rotation)
			center := quadCenter(rotatedCorners)
			det := Detection{
				FamilyName:     fh.Family.Name,
				ID:             res.CodeIndex,
				Hamming:        res.Hamming,
				DecisionMargin: res.DecisionMargin,
				Homography:     h,
				Center:         center,
				Corners:        rotatedCorners,
			}
			results = append(results, det)
			candidates = append(candidates, dedup.Candidate{
				FamilyName:     det.FamilyName,
				ID:             det.ID,
				Hamming:        det.Hamming,
				DecisionMargin: det.DecisionMargin,
				Corners:        det.Corners,
			})
		}
	}

	keep := dedup.Dedup(candidates)
	ws.detections = ws.detections[:0]
	for _, idx := range keep {
		ws.detections = append(ws.detections, results[idx])
	}

	out := make([]Detection, len(ws.detections))
	copy(out, ws.detections)

	d.logger.Debug("detect done", "detections", len(out))
	return out, nil
}

// minTagWidthPx returns spec.md §4.H.9's area floor, max(3, smallest
// family total width / quad_decimate), evaluated over every registered
// family.
func (d *Detector) minTagWidthPx(decimateFactor int) float64 {
	smallest := -1
	for _, fh := range d.families {
		if smallest == -1 || fh.Family.TotalWidth < smallest {
			smallest = fh.Family.TotalWidth
		}
	}
	if smallest <= 0 {
		smallest = 1
	}
	v := float64(smallest) / float64(decimateFactor)
	if v < 3 {
		v = 3
	}
	return v
}

// rotateCorners cyclically shifts the corners by rotation steps so the
// family's canonical bit-zero corner lands at index 0, per spec.md
// §4.L's match step.
func rotateCorners(c [4][2]float64, rotation int) [4][2]float64 {
	var out [4][2]float64
	for i := 0; i < 4; i++ {
		out[i] = c[(i+rotation)%4]
	}
	return out
}

func quadCenter(c [4][2]float64) [2]float64 {
	var cx, cy float64
	for _, p := range c {
		cx += p[0]
		cy += p[1]
	}
	return [2]float64{cx / 4, cy / 4}
}
