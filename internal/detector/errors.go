package detector

import "errors"

// Sentinel errors for the programmer-error class of spec.md §7: reported
// immediately, before any detection work is attempted.
var (
	ErrInvalidDimensions = errors.New("detector: invalid image dimensions")
	ErrEmptyFamilyList   = errors.New("detector: empty family list")
	ErrBufferLength      = errors.New("detector: buffer too short for stride*height")
)
