package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sgmproject/sgm/internal/domain/model"
)

// ACLEDEventsDependencies defines the interface for event-list operations.
type ACLEDEventsDependencies interface {
	ACLEDEvents(ctx context.Context, limit int) ([]model.ACLEDEvent, error)
}

// ACLEDEventsHandler handles intensity-event requests.
type ACLEDEventsHandler struct {
	deps     ACLEDEventsDependencies
	maxLimit int
}

// NewACLEDEventsHandler creates a new ACLED events handler.
func NewACLEDEventsHandler(deps ACLEDEventsDependencies, maxLimit int) *ACLEDEventsHandler {
	return &ACLEDEventsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetEvents handles GET /acled/events?limit=N requests. Events
// carry the per-event intensity score family, independent of the
// country SGM scores.
func (h *ACLEDEventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_acled_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	events, err := h.deps.ACLEDEvents(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, events)
}
