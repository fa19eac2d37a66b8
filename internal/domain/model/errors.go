package model

import "errors"

// Sentinel kinds for record validation errors.
var (
	ErrNegativeStat = errors.New("negative stat value")
)
