package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
)

func TestWriteIberia(t *testing.T) {
	res := &models.ProcessingResult{
		Transactions: []models.CardTransaction{
			{
				CardNumber: "1234567890123456",
				Date:       "2024-03-05",
				Merchant:   `BAR "EL RINCON"`,
				Amount:     "25,50",
				Category:   "Restaurantes",
			},
		},
		CalculatedTotal: decimal.RequireFromString("25.50"),
		TotalsMatch:     true,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteIberia(&buf, res))

	expected := `"cardNumber","date","merchant","amount","category"` + "\n" +
		`"1234567890123456","2024-03-05","BAR ""EL RINCON""","25,50","Restaurantes"` + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteING(t *testing.T) {
	res := &models.INGProcessingResult{
		Transactions: []models.INGTransaction{
			{
				Date:         "2024-03-05",
				Amount:       "-25,50",
				Title:        "COMPRA EN",
				Counterparty: "FNAC",
				Note:         "MADRID",
				Category:     "Ocio",
				Subcategory:  "Tecnología",
			},
		},
		TotalsMatch: true,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteING(&buf, res))

	expected := `"date","amount","title","counterparty","note","category","subcategory"` + "\n" +
		`"2024-03-05","-25,50","COMPRA EN","FNAC","MADRID","Ocio","Tecnología"` + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteIberiaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	res := &models.ProcessingResult{}

	require.NoError(t, WriteIberiaFile(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cardNumber"`)
}
