package dataset

import "errors"

var (
	// ErrNotFound is returned when the referenced dataset file does not exist.
	ErrNotFound = errors.New("dataset not found")
	// ErrUnsupportedFormat is returned for file extensions other than CSV/TSV/XLSX/XLSM.
	// Legacy binary .xls workbooks fall in this group.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)
