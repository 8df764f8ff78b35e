// Package writer re-exports processing results as CSV for the dashboard's
// download button. Every field is quoted and column names map 1:1 onto the
// transaction field names.
package writer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
)

var (
	iberiaHeader = []string{"cardNumber", "date", "merchant", "amount", "category"}
	ingHeader    = []string{"date", "amount", "title", "counterparty", "note", "category", "subcategory"}
)

// WriteIberia writes an Iberia processing result as quoted-field CSV.
func WriteIberia(out io.Writer, res *models.ProcessingResult) error {
	if err := writeRecord(out, iberiaHeader); err != nil {
		return err
	}
	for _, txn := range res.Transactions {
		row := []string{txn.CardNumber, txn.Date, txn.Merchant, txn.Amount, txn.Category}
		if err := writeRecord(out, row); err != nil {
			return err
		}
	}
	return nil
}

// WriteING writes an ING processing result as quoted-field CSV.
func WriteING(out io.Writer, res *models.INGProcessingResult) error {
	if err := writeRecord(out, ingHeader); err != nil {
		return err
	}
	for _, txn := range res.Transactions {
		row := []string{txn.Date, txn.Amount, txn.Title, txn.Counterparty, txn.Note, txn.Category, txn.Subcategory}
		if err := writeRecord(out, row); err != nil {
			return err
		}
	}
	return nil
}

// WriteIberiaFile writes the CSV to a file path.
func WriteIberiaFile(path string, res *models.ProcessingResult) error {
	return writeFile(path, func(f io.Writer) error { return WriteIberia(f, res) })
}

// WriteINGFile writes the CSV to a file path.
func WriteINGFile(path string, res *models.INGProcessingResult) error {
	return writeFile(path, func(f io.Writer) error { return WriteING(f, res) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", path, err)
	}
	defer f.Close()
	return write(f)
}

// writeRecord emits one CSV record with every field quoted, doubling inner
// quotes. encoding/csv only quotes when forced, and the dashboard's import
// side expects quotes on every field.
func writeRecord(out io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := fmt.Fprintln(out, strings.Join(quoted, ","))
	return err
}
