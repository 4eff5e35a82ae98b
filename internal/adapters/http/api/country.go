package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sgmproject/sgm/internal/adapters/repository"
	"github.com/sgmproject/sgm/internal/domain/model"
)

// CountryDependencies defines the interface for single-score lookups.
type CountryDependencies interface {
	Country(ctx context.Context, code string) (model.CountryScore, error)
}

// CountryHandler handles per-country score requests.
type CountryHandler struct {
	deps CountryDependencies
}

// NewCountryHandler creates a new country handler.
func NewCountryHandler(deps CountryDependencies) *CountryHandler {
	return &CountryHandler{deps: deps}
}

// HandleGetCountry handles GET /sgm/countries/{code} requests. Codes
// match case-insensitively.
func (h *CountryHandler) HandleGetCountry(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_country"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	code := strings.TrimPrefix(r.URL.Path, "/sgm/countries/")
	if code == "" || strings.Contains(code, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	score, err := h.deps.Country(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, score)
}
