// Package detector orchestrates the full detection pipeline (spec.md
// §4.N): preprocessing, thresholding, connected components, boundary
// extraction, quad fitting and refinement, homography, decoding, and
// deduplication, run against a detector-owned, never-shrinking
// workspace whose buffers are reused across frames. Each detection call
// still allocates its result slice and some per-stage temporaries.
package detector

import "math"

// Config holds the tunable detection parameters of spec.md §6, with the
// same field names and defaults as the reference configuration.
type Config struct {
	QuadDecimate      float64
	QuadSigma         float64
	RefineEdges       bool
	DecodeSharpening  float64
	MinClusterPixels  int
	MaxNMaxima        int
	CosCriticalRad    float64
	MaxLineFitMSE     float64
	MinWhiteBlackDiff int
	Deglitch          bool
}

// DefaultConfig returns the reference default configuration.
func DefaultConfig() Config {
	return Config{
		QuadDecimate:      2.0,
		QuadSigma:         0.0,
		RefineEdges:       true,
		DecodeSharpening:  0.25,
		MinClusterPixels:  5,
		MaxNMaxima:        10,
		CosCriticalRad:    math.Cos(10 * math.Pi / 180),
		MaxLineFitMSE:     10.0,
		MinWhiteBlackDiff: 5,
		Deglitch:          false,
	}
}
