package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/sgmproject/sgm/internal/domain/model"
	"github.com/sgmproject/sgm/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculator_Score(t *testing.T) {
	Convey("Given a calculator with a seeded random source", t, func() {
		calc := scoring.New(scoring.WithRand(rand.New(rand.NewSource(1))))

		Convey("When scoring a two-event aggregate with negative tone and goldstein", func() {
			// tones -4 and -2 average to -3; goldstein -6 and -2 average to -4
			agg := &model.CountryAggregate{
				Code:         "SD",
				Country:      "Sudan",
				EventCount:   2,
				ToneSum:      -6,
				GoldsteinSum: -8,
				Latitude:     15.5007,
				Longitude:    32.5599,
			}
			score := calc.Score(agg)

			Convey("Then component scores follow the tone and goldstein formulas", func() {
				So(score.SRSI, ShouldEqual, 6.5) // 5 - (-3)/2
				So(score.SRSD, ShouldEqual, 7.0) // 5 - (-4)/2
			})

			Convey("And the composite is the mean of the components", func() {
				So(score.GSCS, ShouldEqual, 6.8) // (7.0+6.5)/2 = 6.75, emitted at one decimal
				So(score.SGM, ShouldEqual, score.GSCS)
			})

			Convey("And the category comes from the unrounded composite", func() {
				// 6.75 sits in the (6, 8] bucket even though it displays as 6.8.
				So(score.Category, ShouldEqual, scoring.CategoryStructural)
			})

			Convey("And the description names the country", func() {
				So(score.Description, ShouldStartWith, "Sudan demonstrates structural supremacism")
			})

			Convey("And the stability index stays in range", func() {
				So(score.STI, ShouldBeGreaterThanOrEqualTo, 0)
				So(score.STI, ShouldBeLessThanOrEqualTo, 100)
				// round(6.75*8)=54, jitter within +/-10
				So(score.STI, ShouldBeGreaterThanOrEqualTo, 44)
				So(score.STI, ShouldBeLessThanOrEqualTo, 64)
			})

			Convey("And the aggregate metadata carries through", func() {
				So(score.Code, ShouldEqual, "SD")
				So(score.Country, ShouldEqual, "Sudan")
				So(score.EventCount, ShouldEqual, 2)
				So(score.AvgTone, ShouldEqual, -3.0)
				So(score.Latitude, ShouldEqual, 15.5007)
				So(score.Longitude, ShouldEqual, 32.5599)
				So(score.UpdatedAt, ShouldNotBeEmpty)
			})
		})

		Convey("When tone and goldstein are extremely positive", func() {
			agg := &model.CountryAggregate{
				Code: "SE", Country: "Sweden",
				EventCount: 1, ToneSum: 100, GoldsteinSum: 100,
			}
			score := calc.Score(agg)

			Convey("Then components clamp to the scale floor", func() {
				So(score.SRSI, ShouldEqual, 0.0)
				So(score.SRSD, ShouldEqual, 0.0)
				So(score.GSCS, ShouldEqual, 0.0)
				So(score.Category, ShouldEqual, scoring.CategoryNonSupremacist)
			})

			Convey("And the stability index cannot go negative", func() {
				So(score.STI, ShouldBeGreaterThanOrEqualTo, 0)
				So(score.STI, ShouldBeLessThanOrEqualTo, 10)
			})
		})

		Convey("When tone and goldstein are extremely negative", func() {
			agg := &model.CountryAggregate{
				Code: "XX", Country: "Testland",
				EventCount: 1, ToneSum: -100, GoldsteinSum: -100,
			}
			score := calc.Score(agg)

			Convey("Then components clamp to the scale ceiling", func() {
				So(score.SRSI, ShouldEqual, 10.0)
				So(score.SRSD, ShouldEqual, 10.0)
				So(score.GSCS, ShouldEqual, 10.0)
				So(score.Category, ShouldEqual, scoring.CategoryExtreme)
			})

			Convey("And the stability index caps at 100", func() {
				So(score.STI, ShouldBeLessThanOrEqualTo, 100)
				So(score.STI, ShouldBeGreaterThanOrEqualTo, 70)
			})
		})
	})
}

func TestCalculator_ScoreAll(t *testing.T) {
	Convey("Given a calculator", t, func() {
		calc := scoring.New(scoring.WithRand(rand.New(rand.NewSource(7))))

		Convey("When scoring a map with empty and nil aggregates mixed in", func() {
			aggs := map[string]*model.CountryAggregate{
				"US": {Code: "US", Country: "United States", EventCount: 3, ToneSum: -9, GoldsteinSum: -6},
				"ZZ": {Code: "ZZ", Country: "Nowhere", EventCount: 0},
				"NL": nil,
			}
			scores := calc.ScoreAll(aggs)

			Convey("Then only populated aggregates produce scores", func() {
				So(scores, ShouldHaveLength, 1)
				So(scores[0].Code, ShouldEqual, "US")
			})
		})

		Convey("When scoring an empty map", func() {
			Convey("Then the result is empty", func() {
				So(calc.ScoreAll(nil), ShouldBeEmpty)
			})
		})
	})
}

func TestCategory(t *testing.T) {
	Convey("Given the category buckets", t, func() {
		Convey("Then boundaries are inclusive on the upper end", func() {
			So(scoring.Category(0), ShouldEqual, scoring.CategoryNonSupremacist)
			So(scoring.Category(2.0), ShouldEqual, scoring.CategoryNonSupremacist)
			So(scoring.Category(2.01), ShouldEqual, scoring.CategoryMixed)
			So(scoring.Category(4.0), ShouldEqual, scoring.CategoryMixed)
			So(scoring.Category(4.01), ShouldEqual, scoring.CategorySoft)
			So(scoring.Category(6.0), ShouldEqual, scoring.CategorySoft)
			So(scoring.Category(6.01), ShouldEqual, scoring.CategoryStructural)
			So(scoring.Category(8.0), ShouldEqual, scoring.CategoryStructural)
			So(scoring.Category(8.01), ShouldEqual, scoring.CategoryExtreme)
			So(scoring.Category(10.0), ShouldEqual, scoring.CategoryExtreme)
		})
	})
}

func TestIntensity(t *testing.T) {
	Convey("Given the event intensity formula", t, func() {
		Convey("When the event is a battle with many fatalities", func() {
			Convey("Then the fatality bonus caps at the scale ceiling", func() {
				// base 5 + battle 3 + min(3, 12/5)=2 -> 10
				So(scoring.Intensity("Battle", 12), ShouldEqual, 10.0)
			})
		})

		Convey("When the event is a protest with no fatalities", func() {
			So(scoring.Intensity("Protests", 0), ShouldEqual, 5.0)
		})

		Convey("When the event is strategic development", func() {
			So(scoring.Intensity("Strategic development", 0), ShouldEqual, 4.0)
		})

		Convey("When the event type is unknown", func() {
			Convey("Then only the fatality term adjusts the base", func() {
				So(scoring.Intensity("Looting", 5), ShouldEqual, 6.0)
			})
		})

		Convey("When fatalities push past the cap", func() {
			So(scoring.Intensity("Explosion/Remote violence", 100), ShouldEqual, 10.0)
		})

		Convey("When the adjustment would exceed the scale", func() {
			So(scoring.Intensity("Violence against civilians", 20), ShouldEqual, 10.0)
		})
	})
}
