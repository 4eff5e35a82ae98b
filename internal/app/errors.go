package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrRunInProgress = errors.New("a scoring run is already in progress")
	ErrNotStarted    = errors.New("service not started")
)
