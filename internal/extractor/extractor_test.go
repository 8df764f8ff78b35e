package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/models"
)

func TestExtractGrid_CommaDelimited(t *testing.T) {
	content := "FECHA,DESCRIPCIÓN,IMPORTE\n05/03/2024,COMPRA EN FNAC,-25,50\n"
	grid, err := ExtractGrid("movements.csv", []byte(content))
	require.NoError(t, err)

	require.Len(t, grid, 2)
	assert.Equal(t, "FECHA", grid.Cell(0, 0))
	assert.Equal(t, "COMPRA EN FNAC", grid.Cell(1, 1))
}

func TestExtractGrid_SemicolonDelimited(t *testing.T) {
	content := "FECHA;DESCRIPCIÓN;IMPORTE\n05/03/2024;COMPRA EN FNAC;-25,50\n06/03/2024;PAGO EN BAR;-3,20\n"
	grid, err := ExtractGrid("movements.csv", []byte(content))
	require.NoError(t, err)

	require.Len(t, grid, 3)
	// Semicolon wins over the decimal commas in the amounts.
	assert.Equal(t, "-25,50", grid.Cell(1, 2))
}

func TestExtractGrid_TabDelimited(t *testing.T) {
	content := "FECHA\tIMPORTE\n05/03/2024\t-25.50\n"
	grid, err := ExtractGrid("movements.txt", []byte(content))
	require.NoError(t, err)

	require.Len(t, grid, 2)
	assert.Equal(t, "-25.50", grid.Cell(1, 1))
}

func TestExtractGrid_QuotesAndBlankLines(t *testing.T) {
	content := "\"FECHA\";\"IMPORTE\"\n\n  \n\"05/03/2024\";\"-25,50\"\r\n"
	grid, err := ExtractGrid("movements.csv", []byte(content))
	require.NoError(t, err)

	require.Len(t, grid, 2)
	assert.Equal(t, "FECHA", grid.Cell(0, 0))
	assert.Equal(t, "-25,50", grid.Cell(1, 1))
}

func TestExtractGrid_TooFewRows(t *testing.T) {
	_, err := ExtractGrid("empty.csv", []byte("only one line\n"))
	assert.ErrorIs(t, err, models.ErrFileFormat)

	_, err = ExtractGrid("empty.csv", []byte(""))
	assert.ErrorIs(t, err, models.ErrFileFormat)
}

func TestExtractGrid_Workbook(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"FECHA", "DESCRIPCIÓN", "IMPORTE"},
		{"05/03/2024", "COMPRA EN FNAC", "-25,50"},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	grid, gridErr := ExtractGrid("movements.xlsx", buf.Bytes())
	require.NoError(t, gridErr)

	require.Len(t, grid, 2)
	assert.Equal(t, "FECHA", grid.Cell(0, 0))
	assert.Equal(t, "COMPRA EN FNAC", grid.Cell(1, 1))
	assert.Equal(t, "-25,50", grid.Cell(1, 2))
}

func TestExtractGrid_WorkbookGarbage(t *testing.T) {
	_, err := ExtractGrid("broken.xlsx", []byte("this is not a zip archive"))
	assert.Error(t, err)
}

func TestGridCellBounds(t *testing.T) {
	grid := models.RawGrid{{"a"}, {"b", "c"}}
	assert.Equal(t, "c", grid.Cell(1, 1))
	assert.Equal(t, "", grid.Cell(0, 5))
	assert.Equal(t, "", grid.Cell(7, 0))
	assert.Equal(t, 2, grid.RowLen(1))
	assert.Equal(t, 0, grid.RowLen(9))
}
