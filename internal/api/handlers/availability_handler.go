package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
)

const maxAvailabilityBodyBytes = 64 << 10

// AvailabilityManager is the doctor availability workflow
type AvailabilityManager interface {
	Prepare(in entities.AvailabilityInput) (entities.AvailabilityPayload, error)
	List(ctx context.Context, token string) []json.RawMessage
	Create(ctx context.Context, token string, in entities.AvailabilityInput) (json.RawMessage, error)
	Update(ctx context.Context, token, id string, in entities.AvailabilityInput) (json.RawMessage, error)
	Delete(ctx context.Context, token, id string) (string, error)
	PublicSlots(ctx context.Context, doctorID string, query map[string]string) (map[string]json.RawMessage, error)
}

// AvailabilityHandler handles doctor availability endpoints
type AvailabilityHandler struct {
	service AvailabilityManager
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(service AvailabilityManager) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Normalize handles POST /api/availabilities/normalize. It validates and
// normalizes a form submission without calling the backend.
func (h *AvailabilityHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeAvailabilityInput(w, r)
	if !ok {
		return
	}

	payload, err := h.service.Prepare(in)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

// List handles GET /api/doctor/availabilities
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"availabilities": h.service.List(r.Context(), token),
	})
}

// Create handles POST /api/doctor/availabilities
func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	in, ok := decodeAvailabilityInput(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), token, in)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("create availability failed")
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]json.RawMessage{"availability": created})
}

// Update handles PUT /api/doctor/availabilities/{id}
func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "availability id is required")
		return
	}
	in, ok := decodeAvailabilityInput(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), token, id, in)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Str("availability_id", id).Msg("update availability failed")
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]json.RawMessage{"availability": updated})
}

// Delete handles DELETE /api/doctor/availabilities/{id}
func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token, ok := requireToken(w, r)
	if !ok {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "availability id is required")
		return
	}

	deleted, err := h.service.Delete(r.Context(), token, id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"deleted_id": deleted})
}

// PublicSlots handles GET /api/doctors/{id}/availabilities
func (h *AvailabilityHandler) PublicSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := strings.TrimSpace(r.PathValue("id"))
	if doctorID == "" {
		respondWithError(w, http.StatusBadRequest, "doctor id is required")
		return
	}

	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	data, err := h.service.PublicSlots(r.Context(), doctorID, query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if data == nil {
		data = map[string]json.RawMessage{}
	}
	respondWithJSON(w, http.StatusOK, data)
}

func requireToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		respondWithError(w, http.StatusUnauthorized, "missing bearer token")
		return "", false
	}
	return token, true
}

func decodeAvailabilityInput(w http.ResponseWriter, r *http.Request) (entities.AvailabilityInput, bool) {
	var in entities.AvailabilityInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAvailabilityBodyBytes)).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return in, false
	}
	return in, true
}
