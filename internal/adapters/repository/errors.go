package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound         = errors.New("country not found")
	ErrStoreUnavailable = errors.New("score store unavailable")
)
