package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
)

// ExtractGrid turns one uploaded statement file into a RawGrid.
//
// Workbook formats (.xls/.xlsx) decode the first sheet with no header
// inference. PDF statements go through text extraction and are split into
// cells on tab / wide-gap boundaries. Everything else is treated as
// delimited text (comma, semicolon or tab).
func ExtractGrid(filename string, data []byte) (models.RawGrid, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		grid models.RawGrid
		err  error
	)
	switch ext {
	case ".xlsx", ".xls":
		grid, err = extractWorkbook(data)
	case ".pdf":
		grid, err = extractPDF(data)
	default:
		grid = extractDelimited(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	// A usable grid needs at least a header row and one data row.
	if len(grid) < 2 {
		return nil, fmt.Errorf("%s: %w", filename, models.ErrFileFormat)
	}
	return grid, nil
}

// extractDelimited splits text content into a grid. Blank lines are dropped
// before splitting; cells are trimmed and stripped of surrounding quotes.
func extractDelimited(data []byte) models.RawGrid {
	lines := splitLines(string(data))
	if len(lines) == 0 {
		return nil
	}

	sep := detectSeparator(lines)
	grid := make(models.RawGrid, 0, len(lines))
	for _, line := range lines {
		cells := strings.Split(line, sep)
		for i := range cells {
			cells[i] = stripQuotes(strings.TrimSpace(cells[i]))
		}
		grid = append(grid, cells)
	}
	return grid
}

// splitLines normalizes line endings and removes blank lines.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectSeparator picks the delimiter that occurs most often across the
// whole file, so mixed content inside quoted cells doesn't flip it per row.
func detectSeparator(lines []string) string {
	content := strings.Join(lines, "\n")
	counts := map[string]int{
		";":  strings.Count(content, ";"),
		"\t": strings.Count(content, "\t"),
		",":  strings.Count(content, ","),
	}

	best := ","
	bestCount := counts[","]
	// Spanish exports favor semicolons; they win ties over commas.
	if counts[";"] >= bestCount {
		best = ";"
		bestCount = counts[";"]
	}
	if counts["\t"] > bestCount {
		best = "\t"
	}
	return best
}

// stripQuotes removes one layer of surrounding single or double quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
