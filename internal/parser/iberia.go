package parser

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/categorizer"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/registry"
)

// IberiaProcessor handles Iberia Cards multi-card statements.
//
// The sheet is semi-structured: each card opens with a marker row naming the
// card, followed a few rows later by a transaction-table header:
//
//	<n> | Fecha operación | Comercio | ... | Importe en euros
//
// and somewhere in the sheet a labeled grand total ("TOTAL A CARGAR") used
// only for reconciliation.
type IberiaProcessor struct {
	log zerolog.Logger
}

// NewIberiaProcessor returns a processor logging through the given logger.
func NewIberiaProcessor(log zerolog.Logger) *IberiaProcessor {
	return &IberiaProcessor{log: log}
}

const (
	iberiaColSeq      = 0
	iberiaColDate     = 1
	iberiaColMerchant = 2
	iberiaColAmount   = 4

	// headerScanWindow is how many rows below a card marker the transaction
	// header may appear.
	headerScanWindow = 10
)

// fileTolerance is the per-file reconciliation tolerance.
var fileTolerance = decimal.RequireFromString("0.10")

var sequencePattern = regexp.MustCompile(`^\d+$`)

// cardSection is one contiguous transaction range belonging to one card.
// Its rows run from headerRow+1 to the next section's headerRow (exclusive)
// or to the end of the grid.
type cardSection struct {
	cardID    string
	headerRow int
}

// Process parses the grid and returns the per-file result. It fails when no
// card sections are found or when zero rows survive validation; a
// reconciliation mismatch is only a warning.
func (p *IberiaProcessor) Process(grid models.RawGrid, shops []registry.Entry) (*models.ProcessingResult, error) {
	sections := findCardSections(grid)
	if len(sections) == 0 {
		return nil, models.ErrNoSectionsFound
	}

	expected := findControlTotal(grid)

	var txns []models.CardTransaction
	calculated := decimal.Zero
	for i, sec := range sections {
		end := len(grid)
		if i+1 < len(sections) {
			end = sections[i+1].headerRow
		}
		for row := sec.headerRow + 1; row < end; row++ {
			txn, ok := mapIberiaRow(grid, row, sec.cardID, shops)
			if !ok {
				continue
			}
			txns = append(txns, txn)
			calculated = calculated.Add(CleanAmount(txn.Amount))
		}
	}

	if len(txns) == 0 {
		return nil, models.ErrNoTransactionsFound
	}

	// A total of zero means the label was never found; treat it as unknown.
	match := expected.Sign() <= 0 ||
		calculated.Sub(expected).Abs().LessThanOrEqual(fileTolerance)
	if !match {
		p.log.Warn().
			Str("calculated", calculated.StringFixed(2)).
			Str("expected", expected.StringFixed(2)).
			Msg("statement total does not match declared total")
	}

	return &models.ProcessingResult{
		Transactions:    txns,
		CalculatedTotal: calculated,
		ExpectedTotal:   expected,
		TotalsMatch:     match,
	}, nil
}

// isCardMarker reports whether the row's first column carries the card block
// marker ("IBERIA" plus "ICON", any case).
func isCardMarker(cell string) bool {
	u := strings.ToUpper(cell)
	return strings.Contains(u, "IBERIA") && strings.Contains(u, "ICON")
}

// findCardSections scans for card markers and their transaction headers.
// For each marker the next headerScanWindow rows are searched for a row of
// at least 5 columns naming all the expected header words; the first hit
// delimits that card's section.
func findCardSections(grid models.RawGrid) []cardSection {
	var sections []cardSection
	for i := range grid {
		if !isCardMarker(grid.Cell(i, 0)) {
			continue
		}
		cardID := strings.TrimSpace(grid.Cell(i, 2))
		if cardID == "" {
			continue
		}
		for j := i + 1; j <= i+headerScanWindow && j < len(grid); j++ {
			if grid.RowLen(j) < 5 {
				continue
			}
			if isIberiaHeader(grid[j]) {
				sections = append(sections, cardSection{cardID: cardID, headerRow: j})
				break
			}
		}
	}
	return sections
}

// isIberiaHeader matches the transaction-table header row. "operaci" rather
// than "operación" because the accent often arrives garbled from Excel
// exports.
func isIberiaHeader(row []string) bool {
	joined := strings.ToLower(strings.Join(row, "|"))
	for _, want := range []string{"fecha", "operaci", "comercio", "importe", "euros"} {
		if !strings.Contains(joined, want) {
			return false
		}
	}
	return true
}

// findControlTotal locates the labeled grand total ("TOTAL ... CARGAR" in
// column 2, value in column 4). Returns zero when no such row exists; the
// caller treats that as "no declared total", not an error.
func findControlTotal(grid models.RawGrid) decimal.Decimal {
	for i := range grid {
		label := strings.ToUpper(grid.Cell(i, 2))
		if !strings.Contains(label, "TOTAL") || !strings.Contains(label, "CARGAR") {
			continue
		}
		if raw := strings.TrimSpace(grid.Cell(i, 4)); raw != "" {
			return CleanAmount(raw)
		}
	}
	return decimal.Zero
}

// mapIberiaRow validates one candidate row and maps it to a transaction.
// Summary rows, marker rows and malformed rows are silently dropped.
func mapIberiaRow(grid models.RawGrid, row int, cardID string, shops []registry.Entry) (models.CardTransaction, bool) {
	seq := strings.TrimSpace(grid.Cell(row, iberiaColSeq))
	if seq == "" || isCardMarker(seq) {
		return models.CardTransaction{}, false
	}
	lower := strings.ToLower(seq)
	if strings.Contains(lower, "total") || strings.Contains(lower, "deuda") {
		return models.CardTransaction{}, false
	}
	if !sequencePattern.MatchString(seq) {
		return models.CardTransaction{}, false
	}

	date := strings.TrimSpace(grid.Cell(row, iberiaColDate))
	merchant := strings.TrimSpace(grid.Cell(row, iberiaColMerchant))
	amountRaw := strings.TrimSpace(grid.Cell(row, iberiaColAmount))
	for _, v := range []string{date, merchant, amountRaw} {
		if v == "" || v == "undefined" {
			return models.CardTransaction{}, false
		}
	}

	amount := CleanAmountString(amountRaw)
	if amount == "" || amount == "0" || amount == "0.00" {
		return models.CardTransaction{}, false
	}

	return models.CardTransaction{
		CardNumber: cardID,
		Date:       NormalizeDate(date),
		Merchant:   merchant,
		Amount:     amount,
		Category:   categorizer.Exact(merchant, shops),
	}, true
}
