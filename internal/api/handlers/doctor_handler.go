package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/santeconnect/careconnect/internal/application/services"
	"github.com/santeconnect/careconnect/internal/domain/entities"
)

// DoctorSearcher is the keyword search over registered doctors
type DoctorSearcher interface {
	Search(ctx context.Context, query string, bounds *entities.MapBounds) services.DoctorSearchResult
}

// DoctorHandler handles the doctor search endpoint
type DoctorHandler struct {
	searcher DoctorSearcher
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(searcher DoctorSearcher) *DoctorHandler {
	return &DoctorHandler{searcher: searcher}
}

type doctorSearchResponse struct {
	services.DoctorSearchResult
	Count int `json:"count"`
}

// Search handles GET /api/doctors/search?q=&south=&north=&west=&east=
func (h *DoctorHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	bounds, err := parseBounds(query.Get("south"), query.Get("north"), query.Get("west"), query.Get("east"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.searcher.Search(r.Context(), query.Get("q"), bounds)
	respondWithJSON(w, http.StatusOK, doctorSearchResponse{DoctorSearchResult: result, Count: len(result.Doctors)})
}

// parseBounds returns nil when no bound is given; a partial set is rejected
func parseBounds(south, north, west, east string) (*entities.MapBounds, error) {
	raw := []string{strings.TrimSpace(south), strings.TrimSpace(north), strings.TrimSpace(west), strings.TrimSpace(east)}
	given := 0
	for _, v := range raw {
		if v != "" {
			given++
		}
	}
	if given == 0 {
		return nil, nil
	}
	if given != len(raw) {
		return nil, paramError("south, north, west and east must be given together")
	}

	values := make([]float64, len(raw))
	for i, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, paramError("invalid bounds parameter")
		}
		values[i] = f
	}

	b := entities.MapBounds{South: values[0], North: values[1], West: values[2], East: values[3]}
	if b.South < -90 || b.North > 90 || b.South > b.North || b.West < -180 || b.East > 180 || b.West > b.East {
		return nil, paramError("bounds out of range")
	}
	return &b, nil
}
