// Package aggregate groups normalized events into per-country
// accumulators for the score calculator.
package aggregate

import "github.com/sgmproject/sgm/internal/domain/model"

// ByCountry folds events into per-country aggregates in a single pass,
// keyed by resolved country code.
//
// The first event seen for a code supplies the aggregate's display name
// and representative coordinates; later events only feed the sums. The
// coordinate choice matches the original dataset rather than computing
// a centroid. Aggregates always carry EventCount >= 1, so downstream
// averaging never divides by zero.
func ByCountry(events []model.Event) map[string]*model.CountryAggregate {
	byCode := make(map[string]*model.CountryAggregate)
	for _, ev := range events {
		agg, ok := byCode[ev.Code]
		if !ok {
			agg = &model.CountryAggregate{
				Code:      ev.Code,
				Country:   ev.Country,
				Latitude:  ev.Latitude,
				Longitude: ev.Longitude,
			}
			byCode[ev.Code] = agg
		}
		agg.EventCount++
		agg.ToneSum += ev.Tone
		agg.GoldsteinSum += ev.Goldstein
	}
	return byCode
}
