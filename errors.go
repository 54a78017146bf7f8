package srdr

import (
	"errors"
	"fmt"

	"github.com/jensjap/SRDR-ImportProject2/tables"
)

// ErrMissingIdentifier is returned when a report has no eligibility table
// or its identifier cell is blank. Nothing is created for such a report.
var ErrMissingIdentifier = errors.New("report has no publication identifier")

// Errors raised while walking results tables.
var (
	ErrMissingPriorRecord = tables.ErrMissingPriorRecord
	ErrTableShape         = tables.ErrTableShape
)

// DocumentError is a failure that aborted one report. Nothing the report
// wrote survives it.
type DocumentError struct {
	File string
	Err  error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}
