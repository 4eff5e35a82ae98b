package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sgmproject/sgm/internal/domain/model"
)

// CountriesDependencies defines the interface for score-list operations.
type CountriesDependencies interface {
	Countries(ctx context.Context, limit int, includeDetails bool) ([]model.CountryScore, error)
}

// CountriesHandler handles score-list requests.
type CountriesHandler struct {
	deps     CountriesDependencies
	maxLimit int
}

// NewCountriesHandler creates a new countries handler.
func NewCountriesHandler(deps CountriesDependencies, maxLimit int) *CountriesHandler {
	return &CountriesHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetCountries handles GET /sgm/countries?limit=N&include_details=bool.
// The limit defaults to the configured maximum; include_details defaults
// to false, which strips the description and diagnostic fields.
func (h *CountriesHandler) HandleGetCountries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_countries"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	includeDetails := false
	if raw := r.URL.Query().Get("include_details"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		includeDetails = v
	}

	scores, err := h.deps.Countries(r.Context(), limit, includeDetails)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scores)
}
