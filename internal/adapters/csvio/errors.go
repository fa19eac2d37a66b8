package csvio

import "errors"

// Sentinel kinds for CSV errors.
var (
	ErrReadInput     = errors.New("read input failed")
	ErrEmptyInput    = errors.New("input must contain a header and at least one data row")
	ErrMissingColumn = errors.New("missing required column")
	ErrNotNumeric    = errors.New("value is not numeric")
	ErrWriteOutput   = errors.New("write output failed")
)
