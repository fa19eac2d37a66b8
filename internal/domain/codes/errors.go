package codes

import "errors"

// Sentinel kinds for legend errors.
var (
	ErrUnknownRubric = errors.New("unknown rubric")
	ErrLoadLegend    = errors.New("load legend failed")
	ErrInvalidLegend = errors.New("invalid legend")
)
