// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sgmproject/sgm/internal/domain/jobs"
	"github.com/sgmproject/sgm/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	// Read operations over persisted scores and events.
	Countries(ctx context.Context, limit int, includeDetails bool) ([]model.CountryScore, error)
	Country(ctx context.Context, code string) (model.CountryScore, error)
	ACLEDEvents(ctx context.Context, limit int) ([]model.ACLEDEvent, error)

	// TriggerRun starts an asynchronous scoring run and returns its
	// job id. Returns a busy error while a run is in flight.
	TriggerRun(ctx context.Context, daysBack, limit int) (string, error)

	// Job returns the record for a run job id.
	Job(ctx context.Context, id string) (jobs.Record, bool)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	countriesHandler *CountriesHandler
	countryHandler   *CountryHandler
	runHandler       *RunHandler
	jobsHandler      *JobsHandler
	eventsHandler    *ACLEDEventsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxListLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		countriesHandler: NewCountriesHandler(deps, maxListLimit),
		countryHandler:   NewCountryHandler(deps),
		runHandler:       NewRunHandler(deps),
		jobsHandler:      NewJobsHandler(deps),
		eventsHandler:    NewACLEDEventsHandler(deps, maxListLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sgm/countries", MetricsMiddleware(s.countriesHandler.HandleGetCountries, "countries"))
	mux.HandleFunc("/sgm/countries/", MetricsMiddleware(s.countryHandler.HandleGetCountry, "country"))
	mux.HandleFunc("/sgm/run", MetricsMiddleware(s.runHandler.HandleTriggerRun, "run"))
	mux.HandleFunc("/sgm/jobs/", MetricsMiddleware(s.jobsHandler.HandleGetJob, "job"))
	mux.HandleFunc("/acled/events", MetricsMiddleware(s.eventsHandler.HandleGetEvents, "acled_events"))
}

// runResponse acknowledges an accepted run trigger.
type runResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
