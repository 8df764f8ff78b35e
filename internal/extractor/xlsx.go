package extractor

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
)

// extractWorkbook decodes the first sheet of an Excel workbook into a grid.
// No header inference happens here; the parsers locate headers positionally.
func extractWorkbook(data []byte) (models.RawGrid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return models.RawGrid(rows), nil
}
