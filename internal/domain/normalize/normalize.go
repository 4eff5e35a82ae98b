// Package normalize converts raw GDELT and ACLED records into the
// common event shape consumed by the aggregator.
package normalize

import (
	"strings"

	"github.com/sgmproject/sgm/internal/domain/model"
)

// CodeForCountry resolves a country name to a two-letter code.
//
// Resolution order: case-insensitive substring match against the
// canonical table in its declared order, then a fallback of the first
// two letters of the name, upper-cased. The fallback is lossy and
// wrong for plenty of countries ("Switzerland" -> "SW"); it is kept
// because persisted scores from earlier runs are keyed this way.
func CodeForCountry(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range countryCodes {
		if strings.Contains(lower, strings.ToLower(entry.name)) {
			return entry.code
		}
	}
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return strings.ToUpper(trimmed)
	}
	return strings.ToUpper(trimmed[:2])
}

// Normalize converts one raw record into the uniform event shape.
//
// GDELT events carry tone and goldstein; ACLED events carry neither
// (their fatality/event-type signal feeds the separate intensity
// family), so both default to zero. Returns ErrMalformedEvent when the
// record has neither a country name nor a code.
func Normalize(raw model.RawEvent) (model.Event, error) {
	country := strings.TrimSpace(raw.Country)
	code := strings.ToUpper(strings.TrimSpace(raw.CountryCode))

	switch {
	case country == "" && code == "":
		return model.Event{}, ErrMalformedEvent
	case code == "":
		code = CodeForCountry(country)
	case country == "":
		country = CountryForCode(code)
	}

	ev := model.Event{
		Source:    raw.Source,
		Code:      code,
		Country:   country,
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
		EventDate: raw.EventDate,
	}
	if raw.Source == model.SourceGDELT {
		ev.Tone = raw.AvgTone
		ev.Goldstein = raw.Goldstein
	}
	return ev, nil
}

// Batch normalizes a slice of raw events, dropping malformed records.
// It returns the normalized events and the number skipped.
func Batch(raws []model.RawEvent) ([]model.Event, int) {
	events := make([]model.Event, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		ev, err := Normalize(raw)
		if err != nil {
			skipped++
			continue
		}
		events = append(events, ev)
	}
	return events, skipped
}
