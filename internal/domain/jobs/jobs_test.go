package jobs_test

import (
	"context"
	"sync"
	"testing"

	"github.com/sgmproject/sgm/internal/domain/jobs"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	Convey("Given an empty job tracker", t, func() {
		tracker := jobs.NewTracker()
		ctx := context.Background()

		Convey("When starting a job", func() {
			id := tracker.Start(ctx)

			Convey("Then the record is retrievable in the started state", func() {
				rec, ok := tracker.Get(ctx, id)
				So(ok, ShouldBeTrue)
				So(rec.ID, ShouldEqual, id)
				So(rec.State, ShouldEqual, jobs.StateStarted)
				So(rec.Progress, ShouldEqual, 0.0)
				So(rec.StartedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And updating it moves the state and progress", func() {
				tracker.Update(ctx, id, jobs.StateRunning, 0.5, "halfway")
				rec, ok := tracker.Get(ctx, id)
				So(ok, ShouldBeTrue)
				So(rec.State, ShouldEqual, jobs.StateRunning)
				So(rec.Progress, ShouldEqual, 0.5)
				So(rec.Message, ShouldEqual, "halfway")
				So(rec.UpdatedAt.Before(rec.StartedAt), ShouldBeFalse)
			})
		})

		Convey("When updating an unknown id", func() {
			tracker.Update(ctx, "no-such-job", jobs.StateFailed, 1, "boom")

			Convey("Then nothing is created", func() {
				_, ok := tracker.Get(ctx, "no-such-job")
				So(ok, ShouldBeFalse)
				So(tracker.Len(), ShouldEqual, 0)
			})
		})

		Convey("When starting jobs concurrently", func() {
			const n = 20
			var wg sync.WaitGroup
			ids := make(chan string, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ids <- tracker.Start(ctx)
				}()
			}
			wg.Wait()
			close(ids)

			Convey("Then every job gets a distinct record", func() {
				seen := make(map[string]bool)
				for id := range ids {
					So(seen[id], ShouldBeFalse)
					seen[id] = true
				}
				So(tracker.Len(), ShouldEqual, n)
			})
		})
	})
}
