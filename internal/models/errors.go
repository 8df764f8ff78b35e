package models

import "errors"

// Per-file fatal errors. The Iberia path reports in English, the ING path in
// Spanish; both messages are shown to the end user verbatim.
var (
	// ErrFileFormat means the extracted grid cannot hold a header plus data.
	ErrFileFormat = errors.New("file must contain at least a header row and one data row")

	// ErrNoSectionsFound means no card marker/header pairs were located.
	ErrNoSectionsFound = errors.New("no card sections found in statement")

	// ErrNoTransactionsFound means zero rows survived validation.
	ErrNoTransactionsFound = errors.New("no transactions found in statement")

	// ErrINGHeaderNotFound: the ING export has no recognizable header row.
	ErrINGHeaderNotFound = errors.New("no se encontró la fila de cabecera en el archivo")

	// ErrINGMissingColumns: the header row lacks one of the required columns.
	ErrINGMissingColumns = errors.New("no se encontraron las columnas de fecha, importe y descripción")

	// ErrINGNoTransactions: zero ING rows survived validation.
	ErrINGNoTransactions = errors.New("no se encontraron movimientos en el archivo")
)
