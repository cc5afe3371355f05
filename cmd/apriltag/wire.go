package main

import (
	"github.com/benlenarts/apriltag-go/internal/detector"
	"github.com/benlenarts/apriltag-go/internal/pose"
)

// detectionJSON is the wire shape of spec.md §6: field names and types
// exactly as specified, for JSON serialization of a Detection.
type detectionJSON struct {
	Family         string        `json:"family"`
	ID             int           `json:"id"`
	Hamming        int           `json:"hamming"`
	DecisionMargin float64       `json:"decision_margin"`
	Center         [2]float64    `json:"center"`
	Corners        [4][2]float64 `json:"corners"`
	Pose           *poseJSON     `json:"pose,omitempty"`
}

// poseJSON is the wire shape of spec.md §6's pose object: a row-major
// 3x3 rotation, a 3-vector translation, and the orthogonal-iteration
// convergence error.
type poseJSON struct {
	Rotation    [9]float64 `json:"rotation"`
	Translation [3]float64 `json:"translation"`
	Error       float64    `json:"error"`
}

func toDetectionJSON(d detector.Detection) detectionJSON {
	return detectionJSON{
		Family:         d.FamilyName,
		ID:             d.ID,
		Hamming:        d.Hamming,
		DecisionMargin: d.DecisionMargin,
		Center:         d.Center,
		Corners:        d.Corners,
	}
}

func toPoseJSON(p pose.Pose) poseJSON {
	return poseJSON{Rotation: [9]float64(p.R), Translation: p.T, Error: p.Err}
}
