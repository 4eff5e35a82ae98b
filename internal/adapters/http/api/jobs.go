package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/sgmproject/sgm/internal/domain/jobs"
)

// JobsDependencies defines the interface for job-record lookups.
type JobsDependencies interface {
	Job(ctx context.Context, id string) (jobs.Record, bool)
}

// JobsHandler handles job-status requests.
type JobsHandler struct {
	deps JobsDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobsDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandleGetJob handles GET /sgm/jobs/{id} requests.
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/sgm/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rec, ok := h.deps.Job(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrJobNotFound))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
