package models

// RawGrid is the rectangular cell matrix extracted from one statement file.
// Rows may have irregular length, so always go through Cell for access.
type RawGrid [][]string

// Cell returns the value at (row, col), or "" when out of range.
func (g RawGrid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	if col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// RowLen returns the number of cells in the given row, or 0 when out of range.
func (g RawGrid) RowLen(row int) int {
	if row < 0 || row >= len(g) {
		return 0
	}
	return len(g[row])
}
