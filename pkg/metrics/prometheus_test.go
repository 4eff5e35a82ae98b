package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithRegistry(registry))

		Convey("Then all collectors register without conflict", func() {
			So(manager, ShouldNotBeNil)

			families, err := registry.Gather()
			So(err, ShouldBeNil)
			// Vec collectors stay invisible until first use, so only
			// the plain counters, gauges and histograms show up here.
			So(len(families), ShouldBeGreaterThanOrEqualTo, 7)
		})
	})
}

func TestRecordingHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through the package-level helpers", func() {
			Convey("Then none of them panic", func() {
				So(func() {
					RecordRun("success")
					RecordRun("failed")
					ObserveRunDuration(1.5)
					SetLastRunUnix(1_700_000_000)
					RecordEventsFetched("GDELT", 120)
					RecordEventsSkipped(3)
					UpdateCountriesScored(14)
					RecordScoresUpserted(14)
					RecordIntensityEvents(9)
					RecordStoreFallback()
					RecordStoreError()
					RecordHTTPRequest("countries", "GET", "200")
					RecordHTTPRequestDuration("countries", "GET", "200", 12.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the global registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then the recorded metrics are present", func() {
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["sgm_pipeline_runs_total"], ShouldBeTrue)
				So(names["sgm_http_requests_total"], ShouldBeTrue)
				So(names["sgm_store_fallbacks_total"], ShouldBeTrue)
			})
		})
	})
}
