package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sgmproject/sgm/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SGM_MONGODB_URI", "mongodb://localhost:27017")

	Convey("Given no overrides beyond the store URI", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults hold", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.StoreBackend, ShouldEqual, config.StoreMongo)
			So(cfg.MongoDatabase, ShouldEqual, "gdelt_db")
			So(cfg.ScoresCollection, ShouldEqual, "sgm_scores")
			So(cfg.EventsCollection, ShouldEqual, "acled_events")
			So(cfg.DaysBack, ShouldEqual, 30)
			So(cfg.FetchLimit, ShouldEqual, 250)
			So(cfg.RunInterval, ShouldEqual, 6*time.Hour)
			So(cfg.MaxListLimit, ShouldEqual, 200)
		})
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SGM_ADDR", ":7070")
	t.Setenv("SGM_STORE_BACKEND", "memory")
	t.Setenv("SGM_DAYS_BACK", "7")
	t.Setenv("SGM_RUN_INTERVAL", "1h")
	t.Setenv("SGM_ACLED_API_KEY", "k-123")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.StoreBackend, ShouldEqual, config.StoreMemory)
			So(cfg.DaysBack, ShouldEqual, 7)
			So(cfg.RunInterval, ShouldEqual, time.Hour)
			So(cfg.ACLEDKey, ShouldEqual, "k-123")
		})
	})
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("addr: \":6060\"\nstore_backend: memory\nfetch_limit: 99\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SGM_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values layer over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.StoreBackend, ShouldEqual, config.StoreMemory)
			So(cfg.FetchLimit, ShouldEqual, 99)
		})
	})

	Convey("Given the file plus an env override", t, func() {
		t.Setenv("SGM_ADDR", ":5050")
		cfg, err := config.Load(context.Background())

		Convey("Then env wins over the file", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":5050")
		})
	})
}

func TestLoad_Validation(t *testing.T) {
	Convey("Given invalid configurations", t, func() {
		cases := []struct {
			name  string
			key   string
			value string
		}{
			{"unknown backend", "SGM_STORE_BACKEND", "cassandra"},
			{"non-positive days_back", "SGM_DAYS_BACK", "0"},
			{"non-positive fetch_limit", "SGM_FETCH_LIMIT", "-5"},
			{"negative run_interval", "SGM_RUN_INTERVAL", "-1h"},
		}

		for _, tc := range cases {
			Convey("When loading with "+tc.name, func() {
				t.Setenv("SGM_STORE_BACKEND", "memory")
				t.Setenv(tc.key, tc.value)

				_, err := config.Load(context.Background())

				Convey("Then validation rejects it", func() {
					So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
				})
			})
		}

		Convey("When the mongo backend has no URI", func() {
			t.Setenv("SGM_STORE_BACKEND", "mongo")
			t.Setenv("SGM_MONGODB_URI", "")

			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
