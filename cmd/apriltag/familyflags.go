package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benlenarts/apriltag-go/internal/family"
)

// familyFlags collects the command-line parameters needed to construct a
// tag family. There is no bundled real-world family table in this
// module (tag36h11 and friends are large externally-generated codeword
// tables, not something to fabricate); instead the caller supplies a
// family's bit layout directly, via family.NewSquareFamily's synthetic,
// rotationally self-consistent square layout.
type familyFlags struct {
	name           string
	nbits          int
	codesCSV       string
	widthAtBorder  int
	totalWidth     int
	reversedBorder bool
	maxHamming     int
}

func (f familyFlags) build() (*family.Family, error) {
	codes, err := parseCodes(f.codesCSV)
	if err != nil {
		return nil, err
	}
	return family.NewSquareFamily(f.name, f.nbits, codes, f.widthAtBorder, f.totalWidth, f.reversedBorder, f.maxHamming)
}

// parseCodes parses a comma-separated list of codewords, accepting
// decimal or 0x-prefixed hexadecimal.
func parseCodes(csv string) ([]uint64, error) {
	parts := strings.Split(csv, ",")
	codes := make([]uint64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseUint(p, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid codeword %q: %w", p, err)
		}
		codes = append(codes, v)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("no codewords given")
	}
	return codes, nil
}
