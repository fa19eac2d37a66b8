package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrUnknownGroupKey = errors.New("unknown group key")
)
