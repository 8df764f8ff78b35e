package parser

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/categorizer"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/registry"
)

// INGProcessor handles ING-style single-table transaction exports: one
// header row (FECHA / DESCRIPCIÓN / IMPORTE, column order varies) followed
// by data rows. There is no control total in this format, so results always
// reconcile.
type INGProcessor struct {
	log zerolog.Logger
}

// NewINGProcessor returns a processor logging through the given logger.
func NewINGProcessor(log zerolog.Logger) *INGProcessor {
	return &INGProcessor{log: log}
}

// ingHeaderWindow is how many leading rows may precede the header row.
const ingHeaderWindow = 10

// Process parses the grid and returns the per-file result.
func (p *INGProcessor) Process(grid models.RawGrid, shops []registry.Entry) (*models.INGProcessingResult, error) {
	headerRow := findINGHeader(grid)
	if headerRow < 0 {
		return nil, models.ErrINGHeaderNotFound
	}

	dateCol, amountCol, descCol := resolveINGColumns(grid[headerRow])
	if dateCol < 0 || amountCol < 0 || descCol < 0 {
		return nil, models.ErrINGMissingColumns
	}

	var txns []models.INGTransaction
	calculated := decimal.Zero
	for row := headerRow + 1; row < len(grid); row++ {
		date := strings.TrimSpace(grid.Cell(row, dateCol))
		amountRaw := strings.TrimSpace(grid.Cell(row, amountCol))
		desc := strings.TrimSpace(grid.Cell(row, descCol))
		if date == "" && amountRaw == "" && desc == "" {
			continue
		}

		amount := ParseSpanishAmount(amountRaw)
		if amount.IsZero() {
			p.log.Debug().Int("row", row).Msg("skipping row with zero amount")
			continue
		}

		parts := DecomposeDescription(desc)
		category, subcategory := categorizer.Fuzzy(
			[]string{parts.Title, parts.Counterparty, desc}, shops)

		txns = append(txns, models.INGTransaction{
			Date:         NormalizeDate(date),
			Amount:       FormatAmount(amount),
			Title:        parts.Title,
			Counterparty: parts.Counterparty,
			Note:         parts.Note,
			Category:     category,
			Subcategory:  subcategory,
		})
		calculated = calculated.Add(amount)
	}

	if len(txns) == 0 {
		return nil, models.ErrINGNoTransactions
	}

	return &models.INGProcessingResult{
		Transactions:    txns,
		CalculatedTotal: calculated,
		TotalsMatch:     true,
	}, nil
}

// findINGHeader scans the first ingHeaderWindow rows for any cell naming one
// of the expected columns. "DESCRIPCI" rather than "DESCRIPCIÓN" to tolerate
// garbled accents.
func findINGHeader(grid models.RawGrid) int {
	limit := len(grid)
	if limit > ingHeaderWindow {
		limit = ingHeaderWindow
	}
	for i := 0; i < limit; i++ {
		for j := 0; j < grid.RowLen(i); j++ {
			u := strings.ToUpper(grid.Cell(i, j))
			if strings.Contains(u, "FECHA") ||
				strings.Contains(u, "IMPORTE") ||
				strings.Contains(u, "DESCRIPCI") {
				return i
			}
		}
	}
	return -1
}

// resolveINGColumns maps header labels to column indices, -1 when missing.
func resolveINGColumns(header []string) (dateCol, amountCol, descCol int) {
	dateCol, amountCol, descCol = -1, -1, -1
	for j, cell := range header {
		u := strings.ToUpper(strings.TrimSpace(cell))
		switch {
		case dateCol < 0 && strings.Contains(u, "FECHA"):
			dateCol = j
		case amountCol < 0 && strings.Contains(u, "IMPORTE"):
			amountCol = j
		case descCol < 0 && strings.Contains(u, "DESCRIPCI"):
			descCol = j
		}
	}
	return dateCol, amountCol, descCol
}

// DescriptionParts is the structured decomposition of a free-text ING
// transaction description. Fields are never null, only possibly empty.
type DescriptionParts struct {
	Title        string
	Counterparty string
	Note         string
}

// ingDescriptionRules are tried in order; the first keyword present in the
// description wins and the remainder is split in half between counterparty
// and note.
var ingDescriptionRules = []struct {
	keyword string
	title   string
}{
	{"COMPRA EN ", "COMPRA EN"},
	{"PAGO EN ", "PAGO EN"},
	{"TRANSFERENCIA", "TRANSFERENCIA"},
	{"REINTEGRO", "REINTEGRO"},
	{"CAJERO", "CAJERO"},
}

// DecomposeDescription splits a free-text description into title,
// counterparty and note using ordered pattern rules. This is best-effort:
// it always produces a result, never an error.
func DecomposeDescription(desc string) DescriptionParts {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return DescriptionParts{}
	}

	upper := strings.ToUpper(desc)
	for _, rule := range ingDescriptionRules {
		idx := strings.Index(upper, rule.keyword)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(desc[idx+len(rule.keyword):])
		counterparty, note := splitHalf(strings.Fields(rest))
		return DescriptionParts{
			Title:        rule.title,
			Counterparty: counterparty,
			Note:         note,
		}
	}

	words := strings.Fields(desc)
	if len(words) <= 2 {
		parts := DescriptionParts{Title: words[0]}
		if len(words) == 2 {
			parts.Counterparty = words[1]
		}
		return parts
	}

	third := len(words) / 3
	return DescriptionParts{
		Title:        strings.Join(words[:third], " "),
		Counterparty: strings.Join(words[third:2*third], " "),
		Note:         strings.Join(words[2*third:], " "),
	}
}

// splitHalf divides words between counterparty and note, the counterparty
// taking the larger half on odd counts.
func splitHalf(words []string) (counterparty, note string) {
	if len(words) == 0 {
		return "", ""
	}
	mid := (len(words) + 1) / 2
	return strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")
}
