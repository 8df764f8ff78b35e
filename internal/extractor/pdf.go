package extractor

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
)

// cellBoundary splits an extracted text line into cells: tabs and runs of
// two or more spaces mark column boundaries.
var cellBoundary = regexp.MustCompile(`\t+| {2,}`)

// extractPDF converts a PDF-delivered statement into a grid. Each extracted
// text line becomes one grid row, split into cells on tab / wide-gap
// boundaries so the positional scanners can work on it like a spreadsheet.
func extractPDF(data []byte) (models.RawGrid, error) {
	lines, err := extractPDFLines(data)
	if err != nil {
		return nil, err
	}

	grid := make(models.RawGrid, 0, len(lines))
	for _, line := range lines {
		cells := cellBoundary.Split(line, -1)
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// extractPDFLines pulls text lines out of the PDF, trying row-based
// extraction first and falling back to coordinate-based reconstruction.
func extractPDFLines(data []byte) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	lines = extractByRow(r, numPages)
	if isReadableText(lines) {
		return lines, nil
	}

	lines = extractByContent(r, numPages)
	if isReadableText(lines) {
		return lines, nil
	}

	return nil, fmt.Errorf("no readable text could be extracted from PDF; the file may be image-based or use custom font encodings")
}

// extractByRow uses GetTextByRow, which preserves layout best. Cells within
// a row are joined with tabs so column boundaries survive.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var lines []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				if s := strings.TrimSpace(word.S); s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				lines = append(lines, strings.Join(parts, "\t"))
			}
		}
	}
	return lines
}

// extractByContent groups text fragments by Y coordinate to reconstruct
// rows, then orders each row by X. Wide X gaps become tab boundaries.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var lines []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y runs bottom-to-top, so emit rows in descending Y order.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var sb strings.Builder
			var prevX float64
			for j, item := range items {
				if j > 0 {
					if item.x-prevX > 15 {
						sb.WriteByte('\t')
					}
				}
				sb.WriteString(item.s)
				prevX = item.x
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// statementWords appear in virtually all Spanish bank statements. Extracted
// text containing none of them is almost certainly garbage.
var statementWords = []string{
	"fecha", "importe", "total", "comercio", "tarjeta", "saldo",
	"banco", "movimiento", "euros", "cuenta", "operacion",
}

// isReadableText checks that the extraction produced enough text, that it's
// mostly readable characters, and that it contains a recognizable word.
func isReadableText(lines []string) bool {
	combined := strings.Join(lines, "\n")
	if len(strings.TrimSpace(combined)) <= 50 {
		return false
	}
	if textQuality(combined) <= 0.6 {
		return false
	}
	lower := strings.ToLower(combined)
	for _, word := range statementWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of readable characters to total characters.
func textQuality(text string) float64 {
	total := 0
	readable := 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(".,-/:;()'\"€$%&@#!?+=*", r) ||
			strings.ContainsRune("áéíóúñÁÉÍÓÚÑçÇ", r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
