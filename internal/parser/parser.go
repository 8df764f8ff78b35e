// Package parser implements the two statement-format pipelines: Iberia
// Cards multi-card statements and ING-style single-table exports. Both work
// over the RawGrid produced by the extractor and consult the shop registry
// for categorization.
package parser

import (
	"fmt"
	"strings"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
)

// Detect identifies the statement layout from grid content. Card markers
// anywhere in the sheet mean an Iberia statement; otherwise an ING-style
// header row within the leading rows means an ING export.
func Detect(grid models.RawGrid) (models.Format, error) {
	for i := range grid {
		if isCardMarker(grid.Cell(i, 0)) {
			return models.FormatIberia, nil
		}
	}
	if findINGHeader(grid) >= 0 {
		return models.FormatING, nil
	}
	return "", fmt.Errorf("could not detect statement format; specify iberia or ing explicitly")
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (models.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "iberia", "iberiacards":
		return models.FormatIberia, nil
	case "ing":
		return models.FormatING, nil
	default:
		return "", fmt.Errorf("unknown statement format %q (want iberia or ing)", s)
	}
}
