package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/domain/providers"
)

// EstablishmentSearcher is the geo search used by the establishment endpoints
type EstablishmentSearcher interface {
	Search(ctx context.Context, position *providers.Coordinates, radiusMeters int, textQuery, specialty string) []entities.Establishment
	SearchByName(ctx context.Context, query string, position *providers.Coordinates, radiusMeters int) []entities.Establishment
	Details(ctx context.Context, elementType string, id int64) *providers.GeoElement
}

// EstablishmentHandler handles establishment search endpoints
type EstablishmentHandler struct {
	searcher EstablishmentSearcher
}

// NewEstablishmentHandler creates a new establishment handler
func NewEstablishmentHandler(searcher EstablishmentSearcher) *EstablishmentHandler {
	return &EstablishmentHandler{searcher: searcher}
}

type establishmentsResponse struct {
	Establishments []entities.Establishment `json:"establishments"`
	Count          int                      `json:"count"`
}

// Search handles GET /api/establishments/search?lat=&lng=&radius=&q=&specialty=
func (h *EstablishmentHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	position, err := parsePosition(query.Get("lat"), query.Get("lng"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	radius, err := parseRadius(query.Get("radius"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.searcher.Search(r.Context(), position, radius, query.Get("q"), query.Get("specialty"))
	respondWithJSON(w, http.StatusOK, establishmentsResponse{Establishments: results, Count: len(results)})
}

// SearchByName handles GET /api/establishments/search-by-name?q=&lat=&lng=&radius=
func (h *EstablishmentHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := strings.TrimSpace(query.Get("q"))
	if q == "" {
		respondWithError(w, http.StatusBadRequest, "q parameter is required")
		return
	}
	position, err := parsePosition(query.Get("lat"), query.Get("lng"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	radius, err := parseRadius(query.Get("radius"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.searcher.SearchByName(r.Context(), q, position, radius)
	respondWithJSON(w, http.StatusOK, establishmentsResponse{Establishments: results, Count: len(results)})
}

// Types handles GET /api/establishments/types
func (h *EstablishmentHandler) Types(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"types":       entities.EstablishmentTypes(),
		"specialties": entities.SpecialtyKeys(),
	})
}

// Details handles GET /api/establishments/{type}/{id}
func (h *EstablishmentHandler) Details(w http.ResponseWriter, r *http.Request) {
	elementType := r.PathValue("type")
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid establishment id")
		return
	}

	element := h.searcher.Details(r.Context(), elementType, id)
	if element == nil {
		respondWithError(w, http.StatusNotFound, "establishment not found")
		return
	}
	respondWithJSON(w, http.StatusOK, element)
}

type paramError string

func (e paramError) Error() string { return string(e) }

// parsePosition returns nil when neither coordinate is given
func parsePosition(latStr, lngStr string) (*providers.Coordinates, error) {
	latStr, lngStr = strings.TrimSpace(latStr), strings.TrimSpace(lngStr)
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, paramError("lat and lng must be given together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || math.IsNaN(lat) {
		return nil, paramError("invalid lat parameter")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || math.IsNaN(lng) {
		return nil, paramError("invalid lng parameter")
	}

	coords := providers.Coordinates{Latitude: lat, Longitude: lng}
	if !coords.Valid() {
		return nil, paramError("coordinates out of range")
	}
	return &coords, nil
}

// parseRadius returns 0 (service default) when the radius is omitted
func parseRadius(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	radius, err := strconv.Atoi(raw)
	if err != nil || radius <= 0 || radius > 50000 {
		return 0, paramError("radius must be between 1 and 50000 meters")
	}
	return radius, nil
}
