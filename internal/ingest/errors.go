package ingest

import "errors"

// Format and data-insufficiency failures. Ingestion is fail-fast: none of
// these leave a partial table behind.
var (
	// ErrHeaderNotFound means no row in the sheet matched any header
	// keyword.
	ErrHeaderNotFound = errors.New("ingest: header row not found")

	// ErrColumnsMissing means a required column (date, description or
	// amount) could not be mapped from the header.
	ErrColumnsMissing = errors.New("ingest: required columns missing")

	// ErrEmptyTable means no rows survived date/amount coercion.
	ErrEmptyTable = errors.New("ingest: no valid transactions after coercion")

	// ErrUnreadableFile means the spreadsheet bytes could not be parsed.
	ErrUnreadableFile = errors.New("ingest: unreadable spreadsheet")
)
