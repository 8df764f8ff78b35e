package models

import "github.com/shopspring/decimal"

// Format identifies a supported statement layout.
type Format string

const (
	// FormatIberia is the Iberia Cards multi-card credit-card statement.
	FormatIberia Format = "iberia"
	// FormatING is the ING-style single-table transaction export.
	FormatING Format = "ing"
)

// CardTransaction is one expense row from an Iberia Cards statement.
// Amount keeps the statement's decimal-comma notation so exported values
// read exactly as they appeared in the source.
type CardTransaction struct {
	CardNumber string `json:"cardNumber"`
	Date       string `json:"date"`   // YYYY-MM-DD
	Merchant   string `json:"merchant"`
	Amount     string `json:"amount"` // decimal string, comma separator
	Category   string `json:"category"`
}

// INGTransaction is one row from an ING-style export, with the free-text
// description decomposed into title/counterparty/note.
type INGTransaction struct {
	Date         string `json:"date"`   // YYYY-MM-DD
	Amount       string `json:"amount"` // decimal string, comma separator
	Title        string `json:"title"`
	Counterparty string `json:"counterparty"`
	Note         string `json:"note"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
}

// ProcessingResult is what the Iberia pipeline returns for one file, or the
// orchestrator for a merged batch.
type ProcessingResult struct {
	Transactions    []CardTransaction `json:"transactions"`
	CalculatedTotal decimal.Decimal   `json:"calculatedTotal"`
	ExpectedTotal   decimal.Decimal   `json:"expectedTotal"`
	TotalsMatch     bool              `json:"totalsMatch"`
}

// INGProcessingResult is the ING pipeline's per-file / merged-batch result.
// ING exports carry no control total, so TotalsMatch is always true.
type INGProcessingResult struct {
	Transactions    []INGTransaction `json:"transactions"`
	CalculatedTotal decimal.Decimal  `json:"calculatedTotal"`
	TotalsMatch     bool             `json:"totalsMatch"`
}
