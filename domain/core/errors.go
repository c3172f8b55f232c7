package core

import "errors"

// Domain errors - centralized error definitions
var (
	ErrEmptyFile  = errors.New("spreadsheet has no rows")
	ErrNoDataRows = errors.New("spreadsheet has a header row but no data rows")
)
