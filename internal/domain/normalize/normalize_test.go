package normalize_test

import (
	"testing"

	"github.com/sgmproject/sgm/internal/domain/model"
	"github.com/sgmproject/sgm/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCodeForCountry(t *testing.T) {
	Convey("Given the country code resolver", t, func() {
		Convey("When the name is in the canonical table", func() {
			So(normalize.CodeForCountry("Sudan"), ShouldEqual, "SD")
			So(normalize.CodeForCountry("South Africa"), ShouldEqual, "ZA")
		})

		Convey("When the name differs in case", func() {
			So(normalize.CodeForCountry("sudan"), ShouldEqual, "SD")
			So(normalize.CodeForCountry("SWEDEN"), ShouldEqual, "SE")
		})

		Convey("When the canonical name is embedded in a longer string", func() {
			So(normalize.CodeForCountry("Sudan, Khartoum"), ShouldEqual, "SD")
			So(normalize.CodeForCountry("Republic of Somalia"), ShouldEqual, "SO")
		})

		Convey("When the name contains more than one table entry", func() {
			Convey("Then the earlier table entry wins, every time", func() {
				for i := 0; i < 50; i++ {
					So(normalize.CodeForCountry("United States and United Kingdom summit"), ShouldEqual, "US")
				}
			})
		})

		Convey("When the name is unmapped", func() {
			Convey("Then the first two letters become the code", func() {
				So(normalize.CodeForCountry("Elbonia"), ShouldEqual, "EL")
				So(normalize.CodeForCountry("wakanda"), ShouldEqual, "WA")
			})
		})

		Convey("When the name is a single character", func() {
			So(normalize.CodeForCountry("x"), ShouldEqual, "X")
		})
	})
}

func TestCountryForCode(t *testing.T) {
	Convey("Given the reverse lookup", t, func() {
		Convey("When the code is known", func() {
			So(normalize.CountryForCode("NG"), ShouldEqual, "Nigeria")
		})

		Convey("When the code is unknown", func() {
			So(normalize.CountryForCode("ZZ"), ShouldEqual, "ZZ")
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given the raw event normalizer", t, func() {
		Convey("When normalizing a GDELT record with a country name", func() {
			raw := model.RawEvent{
				Source:    model.SourceGDELT,
				Country:   "Sudan",
				AvgTone:   -4.2,
				Goldstein: -6.5,
				Latitude:  15.5,
				Longitude: 32.6,
				EventDate: "2026-08-15",
			}
			ev, err := normalize.Normalize(raw)

			Convey("Then the code is resolved and signals carried", func() {
				So(err, ShouldBeNil)
				So(ev.Code, ShouldEqual, "SD")
				So(ev.Country, ShouldEqual, "Sudan")
				So(ev.Tone, ShouldEqual, -4.2)
				So(ev.Goldstein, ShouldEqual, -6.5)
				So(ev.Latitude, ShouldEqual, 15.5)
				So(ev.EventDate, ShouldEqual, "2026-08-15")
			})
		})

		Convey("When the record only carries a code", func() {
			ev, err := normalize.Normalize(model.RawEvent{
				Source:      model.SourceGDELT,
				CountryCode: "ng",
			})

			Convey("Then the name is derived and the code upper-cased", func() {
				So(err, ShouldBeNil)
				So(ev.Code, ShouldEqual, "NG")
				So(ev.Country, ShouldEqual, "Nigeria")
			})
		})

		Convey("When normalizing an ACLED record", func() {
			ev, err := normalize.Normalize(model.RawEvent{
				Source:    model.SourceACLED,
				Country:   "Somalia",
				AvgTone:   -9, // upstream noise, must not leak through
				Goldstein: -9,
			})

			Convey("Then tone and goldstein stay zero", func() {
				So(err, ShouldBeNil)
				So(ev.Code, ShouldEqual, "SO")
				So(ev.Tone, ShouldEqual, 0.0)
				So(ev.Goldstein, ShouldEqual, 0.0)
			})
		})

		Convey("When the record has neither name nor code", func() {
			_, err := normalize.Normalize(model.RawEvent{Source: model.SourceGDELT, Country: "  "})

			Convey("Then it is rejected as malformed", func() {
				So(err, ShouldEqual, normalize.ErrMalformedEvent)
			})
		})
	})
}

func TestBatch(t *testing.T) {
	Convey("Given a mixed batch of raw events", t, func() {
		raws := []model.RawEvent{
			{Source: model.SourceGDELT, Country: "Sudan", AvgTone: -2},
			{Source: model.SourceGDELT}, // malformed
			{Source: model.SourceGDELT, CountryCode: "UA", Goldstein: -5},
			{Source: model.SourceGDELT, Country: ""}, // malformed
		}

		Convey("When normalizing the batch", func() {
			events, skipped := normalize.Batch(raws)

			Convey("Then malformed records are skipped, not fatal", func() {
				So(events, ShouldHaveLength, 2)
				So(skipped, ShouldEqual, 2)
				So(events[0].Code, ShouldEqual, "SD")
				So(events[1].Code, ShouldEqual, "UA")
			})
		})
	})
}
