package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/sgmproject/sgm/internal/app"
)

// RunDependencies defines the interface for triggering scoring runs.
type RunDependencies interface {
	TriggerRun(ctx context.Context, daysBack, limit int) (string, error)
}

// RunHandler handles run-trigger requests.
type RunHandler struct {
	deps RunDependencies
}

// NewRunHandler creates a new run handler.
func NewRunHandler(deps RunDependencies) *RunHandler {
	return &RunHandler{deps: deps}
}

// HandleTriggerRun handles POST /sgm/run?days_back=N&limit=N requests.
// The run executes asynchronously; the response carries the job id to
// poll. A second trigger while a run is in flight gets 409.
func (h *RunHandler) HandleTriggerRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.trigger_run"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	daysBack, ok := optionalPositiveInt(r, "days_back")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	limit, ok := optionalPositiveInt(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	jobID, err := h.deps.TriggerRun(r.Context(), daysBack, limit)
	if err != nil {
		if errors.Is(err, app.ErrRunInProgress) {
			writeError(w, http.StatusConflict, "run_in_progress", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, runResponse{Status: "started", JobID: jobID})
}

// optionalPositiveInt reads a positive integer query parameter,
// returning zero when absent and ok=false when malformed.
func optionalPositiveInt(r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
