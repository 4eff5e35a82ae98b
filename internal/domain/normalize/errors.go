package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	// ErrMalformedEvent marks a raw event carrying neither a country
	// name nor a country code. Callers skip the event and continue;
	// it never aborts a batch.
	ErrMalformedEvent = errors.New("malformed event: no country or country code")
)
