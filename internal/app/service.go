// Package app provides the core service that runs the scoring
// pipeline and implements the dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sgmproject/sgm/internal/adapters/ingest"
	"github.com/sgmproject/sgm/internal/adapters/repository"
	"github.com/sgmproject/sgm/internal/domain/aggregate"
	"github.com/sgmproject/sgm/internal/domain/jobs"
	"github.com/sgmproject/sgm/internal/domain/model"
	"github.com/sgmproject/sgm/internal/domain/normalize"
	"github.com/sgmproject/sgm/internal/domain/scoring"
	"github.com/sgmproject/sgm/pkg/logger"
	"github.com/sgmproject/sgm/pkg/metrics"
)

// EventFetcher abstracts an upstream client supplying raw events.
type EventFetcher interface {
	FetchEvents(ctx context.Context, daysBack, limit int) ([]model.RawEvent, error)
}

// RunParams tune one scoring run. Zero values fall back to the
// service defaults.
type RunParams struct {
	DaysBack int
	Limit    int
}

// RunResult is the caller-visible outcome of a run. Runs never
// surface panics or raw errors; failures land here as Success=false
// plus a message.
type RunResult struct {
	JobID          string        `json:"job_id"`
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	EventCount     int           `json:"event_count"`
	SkippedEvents  int           `json:"skipped_events"`
	CountryCount   int           `json:"country_count"`
	WrittenScores  int           `json:"written_scores"`
	IntensityCount int           `json:"intensity_count"`
	Duration       time.Duration `json:"-"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the score store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGDELT sets the GDELT event fetcher.
func WithGDELT(f EventFetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.gdelt = f
		}
	}
}

// WithACLED sets the ACLED event fetcher.
func WithACLED(f EventFetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.acled = f
		}
	}
}

// WithCalculator sets the score calculator.
func WithCalculator(c *scoring.Calculator) Option {
	return func(s *Service) {
		if c != nil {
			s.calc = c
		}
	}
}

// WithDaysBack sets the default lookback window.
func WithDaysBack(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.daysBack = days
		}
	}
}

// WithFetchLimit sets the default per-source fetch cap.
func WithFetchLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.fetchLimit = limit
		}
	}
}

// WithRunInterval sets the periodic scoring cadence. Zero disables
// the scheduler.
func WithRunInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.runInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service orchestrates scoring runs: fetch, normalize, aggregate,
// score, upsert. It also answers the read queries the HTTP layer
// exposes.
//
// Country scores are computed from GDELT events only; ACLED events
// feed the separate per-event intensity family. The two families are
// persisted and served side by side, never merged.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	gdelt EventFetcher
	acled EventFetcher
	calc  *scoring.Calculator
	jobs  *jobs.Tracker

	daysBack    int
	fetchLimit  int
	runInterval time.Duration

	// runMu serializes scoring runs. Overlapping triggers are
	// rejected rather than queued so a slow upstream cannot pile up
	// concurrent upserts for the same country codes.
	runMu      sync.Mutex
	lastResult *RunResult

	started bool
	stopCh  chan struct{}

	log logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		calc:       scoring.New(),
		jobs:       jobs.NewTracker(),
		daysBack:   30,
		fetchLimit: 250,
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service and launches the periodic scheduler
// when a run interval is configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get().Named("app")
	}
	if s.store == nil {
		s.store = repository.NewFallback(repository.NewMemoryStore(), s.log)
		s.log.Warn(ctx, "no store configured; using in-memory store")
	}

	if s.runInterval > 0 {
		go s.schedule(ctx)
	}

	s.started = true
	s.log.Info(ctx, "scoring service started",
		logger.Int("days_back", s.daysBack),
		logger.Int("fetch_limit", s.fetchLimit),
		logger.String("run_interval", s.runInterval.String()),
	)
	return nil
}

// Stop shuts down the scheduler and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	if s.store != nil {
		_ = s.store.Close(context.Background())
	}
	s.started = false
	s.log.Info(context.Background(), "scoring service stopped")
}

// schedule runs the pipeline on the configured cadence until the
// context or service stops. A tick that lands while a run is still in
// flight is skipped, not queued.
func (s *Service) schedule(ctx context.Context) {
	ticker := time.NewTicker(s.runInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.TriggerRun(ctx, 0, 0); errors.Is(err, ErrRunInProgress) {
				s.log.Warn(ctx, "scheduled run skipped; previous run still in flight")
			}
		}
	}
}

// TriggerRun starts an asynchronous run and returns its job id.
// Zero parameters fall back to the service defaults. Returns
// ErrRunInProgress while another run holds the pipeline.
func (s *Service) TriggerRun(ctx context.Context, daysBack, limit int) (string, error) {
	if !s.isStarted() {
		return "", ErrNotStarted
	}
	params := RunParams{DaysBack: daysBack, Limit: limit}
	if !s.runMu.TryLock() {
		return "", ErrRunInProgress
	}
	jobID := s.jobs.Start(ctx)
	go func() {
		defer s.runMu.Unlock()
		// The trigger request's context ends with the HTTP request;
		// the run continues until completion or service stop.
		runCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-s.stopCh:
				cancel()
			case <-runCtx.Done():
			}
		}()
		s.run(runCtx, jobID, params)
	}()
	return jobID, nil
}

// RunOnce executes a run synchronously and returns its result.
// Returns ErrRunInProgress when the pipeline is busy.
func (s *Service) RunOnce(ctx context.Context, params RunParams) (RunResult, error) {
	if !s.isStarted() {
		return RunResult{}, ErrNotStarted
	}
	if !s.runMu.TryLock() {
		return RunResult{}, ErrRunInProgress
	}
	defer s.runMu.Unlock()
	jobID := s.jobs.Start(ctx)
	return s.run(ctx, jobID, params), nil
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// run executes the pipeline with the run lock held.
func (s *Service) run(ctx context.Context, jobID string, params RunParams) RunResult {
	start := time.Now()
	daysBack := params.DaysBack
	if daysBack <= 0 {
		daysBack = s.daysBack
	}
	limit := params.Limit
	if limit <= 0 {
		limit = s.fetchLimit
	}

	res := RunResult{JobID: jobID}
	s.jobs.Update(ctx, jobID, jobs.StateRunning, 0.1, "fetching upstream events")

	gdeltRaw := s.fetch(ctx, s.gdelt, string(model.SourceGDELT), daysBack, limit)
	acledRaw := s.fetch(ctx, s.acled, string(model.SourceACLED), daysBack, limit)
	res.EventCount = len(gdeltRaw) + len(acledRaw)

	if res.EventCount == 0 {
		// No upstream data is a no-op run, not a failure.
		res.Success = true
		res.Message = "no events fetched; nothing to score"
		s.finish(ctx, res, start)
		return res
	}

	s.jobs.Update(ctx, jobID, jobs.StateRunning, 0.4, "normalizing and aggregating")

	gdeltEvents, skippedGDELT := normalize.Batch(gdeltRaw)
	res.SkippedEvents = skippedGDELT
	aggregates := aggregate.ByCountry(gdeltEvents)

	s.jobs.Update(ctx, jobID, jobs.StateRunning, 0.6, "computing scores")

	scores := s.calc.ScoreAll(aggregates)
	res.CountryCount = len(scores)
	intensity, skippedACLED := intensityEvents(acledRaw)
	res.SkippedEvents += skippedACLED
	res.IntensityCount = len(intensity)

	s.jobs.Update(ctx, jobID, jobs.StateRunning, 0.8, "persisting scores")

	// Persistence is the only side-effecting phase. Cancellation
	// before this point leaves no trace.
	written, err := s.store.UpsertMany(ctx, scores)
	if err != nil {
		res.Message = fmt.Sprintf("scored %d countries but persistence failed: %v", len(scores), err)
		s.finish(ctx, res, start)
		return res
	}
	res.WrittenScores = written
	if _, err := s.store.UpsertACLEDEvents(ctx, intensity); err != nil {
		res.Message = fmt.Sprintf("wrote %d scores but event persistence failed: %v", written, err)
		s.finish(ctx, res, start)
		return res
	}

	res.Success = true
	res.Message = fmt.Sprintf("scored %d countries from %d events (%d skipped)",
		res.CountryCount, res.EventCount, res.SkippedEvents)
	s.finish(ctx, res, start)
	return res
}

// fetch pulls raw events from one source, degrading to an empty batch
// on error so a dead upstream never aborts the run.
func (s *Service) fetch(ctx context.Context, fetcher EventFetcher, source string, daysBack, limit int) []model.RawEvent {
	if fetcher == nil {
		return nil
	}
	raws, err := fetcher.FetchEvents(ctx, daysBack, limit)
	if err != nil {
		if errors.Is(err, ingest.ErrMissingKey) {
			s.log.Debug(ctx, "source disabled", logger.String("source", source))
		} else {
			s.log.Warn(ctx, "upstream fetch failed; continuing without source",
				logger.String("source", source), logger.Error(err))
		}
		return nil
	}
	metrics.RecordEventsFetched(source, len(raws))
	return raws
}

// finish records the run outcome in job state, metrics and logs.
func (s *Service) finish(ctx context.Context, res RunResult, start time.Time) {
	res.Duration = time.Since(start)

	state := jobs.StateCompleted
	outcome := "success"
	if !res.Success {
		state = jobs.StateFailed
		outcome = "failed"
	}
	s.jobs.Update(ctx, res.JobID, state, 1.0, res.Message)

	metrics.RecordRun(outcome)
	metrics.ObserveRunDuration(res.Duration.Seconds())
	metrics.SetLastRunUnix(float64(time.Now().Unix()))
	metrics.RecordEventsSkipped(res.SkippedEvents)
	metrics.UpdateCountriesScored(res.CountryCount)
	metrics.RecordScoresUpserted(res.WrittenScores)
	metrics.RecordIntensityEvents(res.IntensityCount)

	s.mu.Lock()
	s.lastResult = &res
	s.mu.Unlock()

	s.log.Info(ctx, "scoring run finished",
		logger.String("job_id", res.JobID),
		logger.String("outcome", outcome),
		logger.Int("events", res.EventCount),
		logger.Int("countries", res.CountryCount),
		logger.Int("skipped", res.SkippedEvents),
		logger.String("duration", res.Duration.String()),
	)
}

// intensityEvents converts ACLED raw events into intensity records,
// skipping records without a resolvable country.
func intensityEvents(raws []model.RawEvent) ([]model.ACLEDEvent, int) {
	out := make([]model.ACLEDEvent, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		if _, err := normalize.Normalize(raw); err != nil {
			skipped++
			continue
		}
		out = append(out, model.ACLEDEvent{
			EventID:    raw.EventID,
			EventDate:  raw.EventDate,
			EventType:  raw.EventType,
			Country:    raw.Country,
			Location:   raw.Location,
			Actor1:     raw.Actor1,
			Actor2:     raw.Actor2,
			Latitude:   raw.Latitude,
			Longitude:  raw.Longitude,
			Fatalities: raw.Fatalities,
			Intensity:  scoring.Intensity(raw.EventType, raw.Fatalities),
		})
	}
	return out, skipped
}

// Countries returns persisted scores for the list endpoint.
func (s *Service) Countries(ctx context.Context, limit int, includeDetails bool) ([]model.CountryScore, error) {
	return s.store.GetAll(ctx, limit, includeDetails)
}

// Country returns one persisted score by code.
func (s *Service) Country(ctx context.Context, code string) (model.CountryScore, error) {
	return s.store.GetByCode(ctx, code)
}

// ACLEDEvents returns recent intensity records.
func (s *Service) ACLEDEvents(ctx context.Context, limit int) ([]model.ACLEDEvent, error) {
	return s.store.RecentACLEDEvents(ctx, limit)
}

// Job returns the record for a run job id.
func (s *Service) Job(ctx context.Context, id string) (jobs.Record, bool) {
	return s.jobs.Get(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"days_back":    s.daysBack,
		"fetch_limit":  s.fetchLimit,
		"run_interval": s.runInterval.String(),
		"jobs_tracked": s.jobs.Len(),
	}
	if s.started {
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["countries_stored"] = n
		}
	}
	if s.lastResult != nil {
		stats["last_run_message"] = s.lastResult.Message
		stats["last_run_success"] = s.lastResult.Success
		stats["last_run_countries"] = s.lastResult.CountryCount
	}
	return stats
}
