package tables

import "errors"

var (
	// ErrMissingPriorRecord means a continuation row referred to an
	// outcome, data entry or measure that no earlier row created.
	ErrMissingPriorRecord = errors.New("missing prior record")

	// ErrTableShape means a results table is narrower than its schema.
	ErrTableShape = errors.New("unexpected table shape")
)
