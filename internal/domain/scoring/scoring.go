// Package scoring computes the SGM score set from per-country
// aggregates, plus the per-event ACLED intensity family.
package scoring

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sgmproject/sgm/internal/domain/model"
)

// Scale bounds shared by the score formulas.
const (
	scoreMin = 0.0
	scoreMax = 10.0

	stiMin    = 0
	stiMax    = 100
	stiFactor = 8
	jitterMax = 10 // stability jitter drawn from [-jitterMax, jitterMax]
)

// Supremacism categories, bucketed on the composite score with
// inclusive upper bounds.
const (
	CategoryNonSupremacist = "Non-Supremacist Governance"
	CategoryMixed          = "Mixed Governance"
	CategorySoft           = "Soft Supremacism"
	CategoryStructural     = "Structural Supremacism"
	CategoryExtreme        = "Extreme Supremacism"
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithRand sets the random source used for the stability jitter.
// Tests pass a seeded source to pin the jitter.
func WithRand(rng *rand.Rand) Option {
	return func(c *Calculator) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// Calculator converts CountryAggregates into CountryScores.
//
// All score fields are deterministic functions of the aggregate except
// STI, which carries a random jitter inherited from the original
// dataset semantics. The jitter is range-bounded, not removed: whether
// it is intentional noise or a placeholder for a historical-trend term
// is unresolved, and silently dropping it would shift persisted values.
type Calculator struct {
	rng *rand.Rand
}

// New creates a Calculator with the given options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // jitter, not crypto
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score computes the SGM score set for one non-empty aggregate.
//
// Formulas:
//
//	srsI = clamp(5 - avgTone/2, 0, 10)       more negative tone, higher score
//	srsD = clamp(5 - avgGoldstein/2, 0, 10)  more negative goldstein, higher score
//	gscs = (srsD + srsI) / 2                 emitted rounded to one decimal
//	sti  = clamp(round(gscs*8) + jitter, 0, 100)
//
// Category, description and STI derive from the unrounded composite so
// bucket boundaries are not distorted by display rounding.
func (c *Calculator) Score(agg *model.CountryAggregate) model.CountryScore {
	avgTone := agg.ToneSum / float64(agg.EventCount)
	avgGoldstein := agg.GoldsteinSum / float64(agg.EventCount)

	srsI := clamp(5-avgTone/2, scoreMin, scoreMax)
	srsD := clamp(5-avgGoldstein/2, scoreMin, scoreMax)
	gscs := (srsD + srsI) / 2

	sti := int(math.Round(gscs*stiFactor)) + c.jitter()
	if sti < stiMin {
		sti = stiMin
	}
	if sti > stiMax {
		sti = stiMax
	}

	composite := round1(gscs)
	return model.CountryScore{
		Code:        agg.Code,
		Country:     agg.Country,
		SRSD:        round1(srsD),
		SRSI:        round1(srsI),
		GSCS:        composite,
		SGM:         composite,
		STI:         sti,
		Category:    Category(gscs),
		Description: Description(agg.Country, gscs),
		EventCount:  agg.EventCount,
		AvgTone:     round2(avgTone),
		Latitude:    agg.Latitude,
		Longitude:   agg.Longitude,
		UpdatedAt:   model.NowISO(),
	}
}

// ScoreAll scores every aggregate in the map, skipping any empty ones.
func (c *Calculator) ScoreAll(aggs map[string]*model.CountryAggregate) []model.CountryScore {
	scores := make([]model.CountryScore, 0, len(aggs))
	for _, agg := range aggs {
		if agg == nil || agg.EventCount == 0 {
			continue
		}
		scores = append(scores, c.Score(agg))
	}
	return scores
}

// jitter returns a uniform draw from [-jitterMax, jitterMax].
func (c *Calculator) jitter() int {
	return c.rng.Intn(2*jitterMax+1) - jitterMax
}

// Category buckets a composite score into its supremacism label.
// Boundaries are inclusive on the upper end of each bucket.
func Category(gscs float64) string {
	switch {
	case gscs <= 2:
		return CategoryNonSupremacist
	case gscs <= 4:
		return CategoryMixed
	case gscs <= 6:
		return CategorySoft
	case gscs <= 8:
		return CategoryStructural
	default:
		return CategoryExtreme
	}
}

// Description renders the fixed per-bucket summary for a country.
func Description(country string, gscs float64) string {
	switch {
	case gscs <= 2:
		return fmt.Sprintf("%s demonstrates low levels of supremacism with generally egalitarian governance patterns.", country)
	case gscs <= 4:
		return fmt.Sprintf("%s shows mixed governance with some egalitarian and some supremacist tendencies.", country)
	case gscs <= 6:
		return fmt.Sprintf("%s exhibits soft supremacism with institutional inequalities despite formal legal equality.", country)
	case gscs <= 8:
		return fmt.Sprintf("%s demonstrates structural supremacism with notable inequalities at societal and governmental levels.", country)
	default:
		return fmt.Sprintf("%s shows extreme supremacist governance with severe systemic discrimination.", country)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
