package parser

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/registry"
)

var iberiaHeaderRow = []string{"Nº", "Fecha operación", "Comercio", "Ciudad", "Importe en euros"}

func iberiaTestGrid() models.RawGrid {
	return models.RawGrid{
		{"ESTADO DE CUENTA"},
		{"IBERIA ICON CLASSICA", "", "1234567890123456"},
		{""},
		iberiaHeaderRow,
		{"1", "05/03/2024", "MERCADONA", "MADRID", "25,50"},
		{"2", "06/03/2024", "FNAC", "MADRID", "100,00"},
		{"", "", "", "", ""},
		{"TOTAL TARJETA", "", "", "", "125,50"},
		{"IBERIA ICON ORO", "", "6543210987654321"},
		iberiaHeaderRow,
		{"1", "07/03/2024", "AMAZON", "", "10,00"},
		{"", "", "TOTAL A CARGAR", "", "135,50"},
	}
}

func testShops() []registry.Entry {
	return []registry.Entry{
		{Shop: "MERCADONA", Category: "Supermercado"},
		{Shop: "AMAZON", Category: "Compras online"},
	}
}

func TestIberiaProcessor_Process(t *testing.T) {
	p := NewIberiaProcessor(zerolog.Nop())

	res, err := p.Process(iberiaTestGrid(), testShops())
	require.NoError(t, err)

	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, "1234567890123456", first.CardNumber)
	assert.Equal(t, "2024-03-05", first.Date)
	assert.Equal(t, "MERCADONA", first.Merchant)
	assert.Equal(t, "25,50", first.Amount)
	assert.Equal(t, "Supermercado", first.Category)

	// FNAC is not in the registry and lands in the default bucket.
	assert.Equal(t, "Otros gastos (otros)", res.Transactions[1].Category)

	// Third transaction belongs to the second card.
	assert.Equal(t, "6543210987654321", res.Transactions[2].CardNumber)

	assert.Equal(t, "135.50", res.CalculatedTotal.StringFixed(2))
	assert.Equal(t, "135.50", res.ExpectedTotal.StringFixed(2))
	assert.True(t, res.TotalsMatch)
}

func TestIberiaProcessor_SkipsInvalidRows(t *testing.T) {
	grid := models.RawGrid{
		{"IBERIA ICON CLASSICA", "", "1111222233334444"},
		iberiaHeaderRow,
		{"1", "05/03/2024", "MERCADONA", "", "25,50"},
		{"A1", "05/03/2024", "BADSEQ", "", "10,00"},       // non-numeric sequence
		{"2", "05/03/2024", "undefined", "", "10,00"},     // literal undefined
		{"3", "", "NODATE", "", "10,00"},                  // empty date
		{"4", "05/03/2024", "ZEROAMT", "", "0,00"},        // zero amount
		{"5", "05/03/2024", "EMPTYAMT", "", ""},           // empty amount
		{"Deuda aplazada", "", "", "", "99,99"},           // summary row
	}

	p := NewIberiaProcessor(zerolog.Nop())
	res, err := p.Process(grid, nil)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "MERCADONA", res.Transactions[0].Merchant)
	assert.Equal(t, "25.50", res.CalculatedTotal.StringFixed(2))
}

func TestIberiaProcessor_NoSections(t *testing.T) {
	grid := models.RawGrid{
		{"some", "random", "sheet"},
		{"with", "no", "markers"},
	}

	p := NewIberiaProcessor(zerolog.Nop())
	_, err := p.Process(grid, nil)
	assert.ErrorIs(t, err, models.ErrNoSectionsFound)
}

func TestIberiaProcessor_MarkerWithoutHeader(t *testing.T) {
	// A marker whose header is outside the scan window yields no section.
	grid := models.RawGrid{{"IBERIA ICON CLASSICA", "", "1111222233334444"}}
	for i := 0; i < 12; i++ {
		grid = append(grid, []string{"filler"})
	}
	grid = append(grid, iberiaHeaderRow)

	p := NewIberiaProcessor(zerolog.Nop())
	_, err := p.Process(grid, nil)
	assert.ErrorIs(t, err, models.ErrNoSectionsFound)
}

func TestIberiaProcessor_NoTransactions(t *testing.T) {
	grid := models.RawGrid{
		{"IBERIA ICON CLASSICA", "", "1111222233334444"},
		iberiaHeaderRow,
		{"TOTAL", "", "", "", "0,00"},
	}

	p := NewIberiaProcessor(zerolog.Nop())
	_, err := p.Process(grid, nil)
	assert.ErrorIs(t, err, models.ErrNoTransactionsFound)
}

func TestIberiaProcessor_ToleranceAndMismatch(t *testing.T) {
	makeGrid := func(total string) models.RawGrid {
		return models.RawGrid{
			{"IBERIA ICON CLASSICA", "", "1111222233334444"},
			iberiaHeaderRow,
			{"1", "05/03/2024", "MERCADONA", "", "25,50"},
			{"", "", "TOTAL A CARGAR", "", total},
		}
	}
	p := NewIberiaProcessor(zerolog.Nop())

	// Within the 0.10 tolerance.
	res, err := p.Process(makeGrid("25,55"), nil)
	require.NoError(t, err)
	assert.True(t, res.TotalsMatch)

	// Beyond tolerance: a warning flag, never an error.
	res, err = p.Process(makeGrid("30,00"), nil)
	require.NoError(t, err)
	assert.False(t, res.TotalsMatch)
	assert.Len(t, res.Transactions, 1)
}

func TestIberiaProcessor_MissingControlTotal(t *testing.T) {
	grid := models.RawGrid{
		{"IBERIA ICON CLASSICA", "", "1111222233334444"},
		iberiaHeaderRow,
		{"1", "05/03/2024", "MERCADONA", "", "25,50"},
	}

	p := NewIberiaProcessor(zerolog.Nop())
	res, err := p.Process(grid, nil)
	require.NoError(t, err)

	// Unknown declared total reconciles by definition.
	assert.True(t, res.ExpectedTotal.IsZero())
	assert.True(t, res.TotalsMatch)
}

func TestFindCardSections_Order(t *testing.T) {
	sections := findCardSections(iberiaTestGrid())
	require.Len(t, sections, 2)
	assert.Equal(t, "1234567890123456", sections[0].cardID)
	assert.Equal(t, 3, sections[0].headerRow)
	assert.Equal(t, "6543210987654321", sections[1].cardID)
	assert.Equal(t, 9, sections[1].headerRow)
	assert.Less(t, sections[0].headerRow, sections[1].headerRow)
}

func TestFindCardSections_MarkerNeedsCardID(t *testing.T) {
	grid := models.RawGrid{
		{"IBERIA ICON CLASSICA", "", ""},
		iberiaHeaderRow,
	}
	assert.Empty(t, findCardSections(grid))
}

func TestFindControlTotal(t *testing.T) {
	assert.Equal(t, "135.50", findControlTotal(iberiaTestGrid()).StringFixed(2))

	// Label without a value keeps scanning and ends up unknown.
	grid := models.RawGrid{
		{"", "", "TOTAL A CARGAR", "", ""},
	}
	assert.True(t, findControlTotal(grid).IsZero())
}
