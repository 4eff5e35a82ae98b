package ingest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/sgmproject/sgm/internal/adapters/ingest"
	"github.com/sgmproject/sgm/internal/domain/model"
	"github.com/sgmproject/sgm/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGDELTClient_FetchEvents(t *testing.T) {
	Convey("Given a GDELT endpoint serving an article list", t, func() {
		var gotQuery atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery.Store(r.URL.Query())
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"articles": [
					{
						"seendate": "20260815T120000Z",
						"tone": -4.2,
						"title": "Clashes reported near the capital",
						"geonames": [
							{"lat": 15.5, "lon": 32.6, "name": "Khartoum", "countryname": "Sudan"}
						]
					},
					{
						"seendate": "20260816T080000Z",
						"tone": -1.1,
						"title": "Talks continue",
						"geonames": []
					}
				]
			}`))
		}))
		defer srv.Close()

		client := ingest.NewGDELTClient(logger.Get(), ingest.WithGDELTBaseURL(srv.URL))

		Convey("When fetching events", func() {
			events, err := client.FetchEvents(context.Background(), 7, 50)

			Convey("Then articles map to raw events", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].Source, ShouldEqual, model.SourceGDELT)
				So(events[0].Country, ShouldEqual, "Sudan")
				So(events[0].AvgTone, ShouldEqual, -4.2)
				So(events[0].Latitude, ShouldEqual, 15.5)
				So(events[0].Location, ShouldEqual, "Khartoum")
			})

			Convey("And geodata-less articles default the country", func() {
				So(events[1].Country, ShouldEqual, "Unknown")
				So(events[1].Latitude, ShouldEqual, 0.0)
			})

			Convey("And the request carries the window parameters", func() {
				q := gotQuery.Load().(url.Values)
				So(q.Get("mode"), ShouldEqual, "artlist")
				So(q.Get("format"), ShouldEqual, "json")
				So(q.Get("maxrecords"), ShouldEqual, "50")
				So(q.Get("timespan"), ShouldEqual, "7days")
			})
		})
	})

	Convey("Given an endpoint that keeps failing", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := ingest.NewGDELTClient(logger.Get(), ingest.WithGDELTBaseURL(srv.URL))

		Convey("When fetching events", func() {
			_, err := client.FetchEvents(context.Background(), 7, 10)

			Convey("Then the upstream error surfaces after retries", func() {
				So(errors.Is(err, ingest.ErrUpstream), ShouldBeTrue)
				So(calls.Load(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an endpoint rejecting the request", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		client := ingest.NewGDELTClient(logger.Get(), ingest.WithGDELTBaseURL(srv.URL))

		Convey("When fetching events", func() {
			_, err := client.FetchEvents(context.Background(), 7, 10)

			Convey("Then the client fails fast without retrying", func() {
				So(errors.Is(err, ingest.ErrUpstream), ShouldBeTrue)
				So(calls.Load(), ShouldEqual, 1)
			})
		})
	})
}

func TestACLEDClient_FetchEvents(t *testing.T) {
	Convey("Given an ACLED endpoint serving string-typed rows", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"data": [
					{
						"data_id": "12345",
						"event_date": "2026-08-20",
						"event_type": "Battle",
						"actor1": "Rebel Group",
						"actor2": "Government Forces",
						"country": "Sudan",
						"location": "Khartoum",
						"latitude": "15.5007",
						"longitude": "32.5599",
						"fatalities": "12",
						"notes": "Heavy fighting"
					},
					{
						"event_date": "2026-08-21",
						"event_type": "Protests",
						"country": "Nigeria",
						"latitude": "not-a-number",
						"fatalities": ""
					}
				]
			}`))
		}))
		defer srv.Close()

		client := ingest.NewACLEDClient("test-key", "dev@example.com", logger.Get(),
			ingest.WithACLEDBaseURL(srv.URL))

		Convey("When fetching events", func() {
			events, err := client.FetchEvents(context.Background(), 30, 100)

			Convey("Then rows map to raw events with parsed numerics", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].Source, ShouldEqual, model.SourceACLED)
				So(events[0].EventID, ShouldEqual, "12345")
				So(events[0].Latitude, ShouldEqual, 15.5007)
				So(events[0].Fatalities, ShouldEqual, 12)
			})

			Convey("And unparsable numerics degrade to zero", func() {
				So(events[1].Latitude, ShouldEqual, 0.0)
				So(events[1].Fatalities, ShouldEqual, 0)
			})

			Convey("And rows without an id get a synthetic one", func() {
				So(events[1].EventID, ShouldEqual, "acled-1")
			})
		})
	})

	Convey("Given a client without an API key", t, func() {
		client := ingest.NewACLEDClient("", "", logger.Get())

		Convey("When fetching events", func() {
			_, err := client.FetchEvents(context.Background(), 30, 100)

			Convey("Then fetching is reported as disabled", func() {
				So(errors.Is(err, ingest.ErrMissingKey), ShouldBeTrue)
			})
		})
	})
}
