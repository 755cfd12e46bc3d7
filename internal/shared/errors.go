package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrReportNotInitialized indicates a report whose backing file has not been created yet.
	ErrReportNotInitialized = errors.New("report not initialized")
	// ErrRowOutOfRange indicates a row index outside the stored table.
	ErrRowOutOfRange = errors.New("row index out of range")
)
