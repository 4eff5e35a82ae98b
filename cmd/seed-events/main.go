// Command seed-events runs the scoring pipeline once against
// synthetic GDELT and ACLED events. It exercises the full
// normalize/aggregate/score/persist path without upstream credentials.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/sgmproject/sgm/internal/adapters/repository"
	"github.com/sgmproject/sgm/internal/app"
	"github.com/sgmproject/sgm/internal/config"
	"github.com/sgmproject/sgm/internal/domain/model"
	"github.com/sgmproject/sgm/pkg/logger"
)

var sampleCountries = []struct {
	name string
	lat  float64
	lon  float64
}{
	{"United States", 37.0902, -95.7129},
	{"Russia", 61.524, 105.3188},
	{"China", 35.8617, 104.1954},
	{"Sudan", 15.5007, 32.5599},
	{"Somalia", 2.0469, 45.3182},
	{"Nigeria", 6.5244, 3.3792},
	{"Sweden", 60.1282, 18.6435},
	{"South Africa", -30.5595, 22.9375},
}

var acledEventTypes = []string{
	"Violence against civilians",
	"Battle",
	"Explosion/Remote violence",
	"Riots",
	"Protests",
	"Strategic development",
}

type generatedFetcher struct {
	events []model.RawEvent
}

func (f *generatedFetcher) FetchEvents(_ context.Context, _, limit int) ([]model.RawEvent, error) {
	if limit > 0 && limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func main() {
	gdeltCount := flag.Int("gdelt", 200, "synthetic GDELT events to generate")
	acledCount := flag.Int("acled", 50, "synthetic ACLED events to generate")
	seed := flag.Int64("seed", 42, "random seed")
	useMongo := flag.Bool("mongo", false, "persist to the configured MongoDB instead of memory")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("seed")
	ctx := context.Background()

	rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // synthetic data

	var store repository.Store = repository.NewFallback(repository.NewMemoryStore(), log)
	if *useMongo {
		cfg, err := config.Load(ctx)
		if err != nil {
			os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
			os.Exit(1)
		}
		mongoStore, err := repository.NewMongoStore(ctx, cfg.MongoURI,
			repository.WithDatabase(cfg.MongoDatabase),
			repository.WithScoresCollection(cfg.ScoresCollection),
			repository.WithEventsCollection(cfg.EventsCollection),
		)
		if err != nil {
			os.Stderr.WriteString("failed to connect to MongoDB: " + err.Error() + "\n")
			os.Exit(1)
		}
		store = repository.NewFallback(mongoStore, log)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithGDELT(&generatedFetcher{events: generateGDELT(rng, *gdeltCount)}),
		app.WithACLED(&generatedFetcher{events: generateACLED(rng, *acledCount)}),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	res, err := svc.RunOnce(ctx, app.RunParams{})
	if err != nil {
		os.Stderr.WriteString("run failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf("run %s: %s\n", res.JobID, res.Message)
	fmt.Printf("  events=%d skipped=%d countries=%d written=%d intensity=%d duration=%s\n",
		res.EventCount, res.SkippedEvents, res.CountryCount, res.WrittenScores,
		res.IntensityCount, res.Duration)

	scores, err := svc.Countries(ctx, 0, true)
	if err != nil {
		os.Stderr.WriteString("failed to read scores back: " + err.Error() + "\n")
		os.Exit(1)
	}
	for _, s := range scores {
		fmt.Printf("  %-2s %-14s gscs=%.1f sti=%3d %s\n", s.Code, s.Country, s.GSCS, s.STI, s.Category)
	}
}

func generateGDELT(rng *rand.Rand, n int) []model.RawEvent {
	events := make([]model.RawEvent, 0, n)
	for i := 0; i < n; i++ {
		c := sampleCountries[rng.Intn(len(sampleCountries))]
		events = append(events, model.RawEvent{
			Source:    model.SourceGDELT,
			Country:   c.name,
			AvgTone:   rng.Float64()*16 - 10, // mostly negative, conflict news
			Goldstein: rng.Float64()*14 - 9,
			Latitude:  c.lat,
			Longitude: c.lon,
			EventDate: fmt.Sprintf("2026-08-%02d", 1+rng.Intn(28)),
		})
	}
	return events
}

func generateACLED(rng *rand.Rand, n int) []model.RawEvent {
	events := make([]model.RawEvent, 0, n)
	for i := 0; i < n; i++ {
		c := sampleCountries[rng.Intn(len(sampleCountries))]
		events = append(events, model.RawEvent{
			Source:     model.SourceACLED,
			EventID:    fmt.Sprintf("seed-%d", i),
			Country:    c.name,
			EventType:  acledEventTypes[rng.Intn(len(acledEventTypes))],
			Fatalities: rng.Intn(25),
			Latitude:   c.lat,
			Longitude:  c.lon,
			EventDate:  fmt.Sprintf("2026-08-%02d", 1+rng.Intn(28)),
		})
	}
	return events
}
