package ingest

import "errors"

// Sentinel kinds for upstream fetch errors.
var (
	ErrUpstream   = errors.New("upstream fetch failed")
	ErrMissingKey = errors.New("ACLED API key not configured")
)
