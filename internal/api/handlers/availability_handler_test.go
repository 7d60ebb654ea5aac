package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/santeconnect/careconnect/internal/api/handlers"
	"github.com/santeconnect/careconnect/internal/application/services"
	"github.com/santeconnect/careconnect/internal/domain/entities"
	apperrors "github.com/santeconnect/careconnect/pkg/errors"
)

type MockAvailabilityManager struct {
	mock.Mock
}

func (m *MockAvailabilityManager) Prepare(in entities.AvailabilityInput) (entities.AvailabilityPayload, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.AvailabilityPayload), args.Error(1)
}

func (m *MockAvailabilityManager) List(ctx context.Context, token string) []json.RawMessage {
	args := m.Called(ctx, token)
	return args.Get(0).([]json.RawMessage)
}

func (m *MockAvailabilityManager) Create(ctx context.Context, token string, in entities.AvailabilityInput) (json.RawMessage, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockAvailabilityManager) Update(ctx context.Context, token, id string, in entities.AvailabilityInput) (json.RawMessage, error) {
	args := m.Called(ctx, token, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockAvailabilityManager) Delete(ctx context.Context, token, id string) (string, error) {
	args := m.Called(ctx, token, id)
	return args.String(0), args.Error(1)
}

func (m *MockAvailabilityManager) PublicSlots(ctx context.Context, doctorID string, query map[string]string) (map[string]json.RawMessage, error) {
	args := m.Called(ctx, doctorID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]json.RawMessage), args.Error(1)
}

func availabilityMux(manager handlers.AvailabilityManager) *http.ServeMux {
	h := handlers.NewAvailabilityHandler(manager)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/availabilities/normalize", h.Normalize)
	mux.HandleFunc("GET /api/doctor/availabilities", h.List)
	mux.HandleFunc("POST /api/doctor/availabilities", h.Create)
	mux.HandleFunc("PUT /api/doctor/availabilities/{id}", h.Update)
	mux.HandleFunc("DELETE /api/doctor/availabilities/{id}", h.Delete)
	mux.HandleFunc("GET /api/doctors/{id}/availabilities", h.PublicSlots)
	return mux
}

func authed(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer doc-token")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAvailabilityHandler_NormalizeUsesRealService(t *testing.T) {
	mux := availabilityMux(services.NewAvailabilityService(nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/availabilities/normalize",
		strings.NewReader(`{"is_recurring":"1","day_of_week":"5","start_time":"09:00","end_time":"17:00"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_recurring":true,"day_of_week":5,"start_time":"09:00:00","end_time":"17:00:00"}`, w.Body.String())
}

func TestAvailabilityHandler_NormalizeValidationError(t *testing.T) {
	mux := availabilityMux(services.NewAvailabilityService(nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/availabilities/normalize",
		strings.NewReader(`{"is_recurring":false,"start_time":"09:00","end_time":"10:00"}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["error"])
	assert.Contains(t, body["errors"], entities.FieldDate)
}

func TestAvailabilityHandler_NormalizeBadBody(t *testing.T) {
	mux := availabilityMux(new(MockAvailabilityManager))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/availabilities/normalize", strings.NewReader(`[1,2`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandler_RequiresBearerToken(t *testing.T) {
	mux := availabilityMux(new(MockAvailabilityManager))

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/doctor/availabilities", nil),
		httptest.NewRequest(http.MethodPost, "/api/doctor/availabilities", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodDelete, "/api/doctor/availabilities/3", nil),
	} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, req.Method+" "+req.URL.Path)
	}
}

func TestAvailabilityHandler_List(t *testing.T) {
	manager := new(MockAvailabilityManager)
	manager.On("List", mock.Anything, "doc-token").Return([]json.RawMessage{
		json.RawMessage(`{"id":3,"doctor_id":4,"start_time":"09:00:00","end_time":"12:00:00"}`),
	})

	w := httptest.NewRecorder()
	availabilityMux(manager).ServeHTTP(w, authed(http.MethodGet, "/api/doctor/availabilities", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"availabilities":[{"id":3,"doctor_id":4,"start_time":"09:00:00","end_time":"12:00:00"}]}`, w.Body.String())
}

func TestAvailabilityHandler_Create(t *testing.T) {
	manager := new(MockAvailabilityManager)
	manager.On("Create", mock.Anything, "doc-token", mock.AnythingOfType("entities.AvailabilityInput")).
		Return(json.RawMessage(`{"id":11,"is_recurring":true}`), nil)

	w := httptest.NewRecorder()
	availabilityMux(manager).ServeHTTP(w, authed(http.MethodPost, "/api/doctor/availabilities",
		`{"is_recurring":true,"day_of_week":2,"start_time":"08:00","end_time":"09:00"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"availability":{"id":11,"is_recurring":true}}`, w.Body.String())
}

func TestAvailabilityHandler_CreateSurfacesBackendFieldErrors(t *testing.T) {
	manager := new(MockAvailabilityManager)
	manager.On("Create", mock.Anything, "doc-token", mock.Anything).
		Return(nil, apperrors.NewFieldValidationError("The given data was invalid.", map[string][]string{
			"start_time": {"The start time overlaps an existing slot."},
		}))

	w := httptest.NewRecorder()
	availabilityMux(manager).ServeHTTP(w, authed(http.MethodPost, "/api/doctor/availabilities", `{"is_recurring":true}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"The given data was invalid.","errors":{"start_time":["The start time overlaps an existing slot."]}}`, w.Body.String())
}

func TestAvailabilityHandler_UpdateAndDelete(t *testing.T) {
	manager := new(MockAvailabilityManager)
	manager.On("Update", mock.Anything, "doc-token", "7", mock.Anything).Return(json.RawMessage(`{"id":7}`), nil)
	manager.On("Delete", mock.Anything, "doc-token", "7").Return("7", nil)
	manager.On("Delete", mock.Anything, "doc-token", "8").Return("", apperrors.NewNotFoundError("availability not found"))
	mux := availabilityMux(manager)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authed(http.MethodPut, "/api/doctor/availabilities/7", `{"is_recurring":false,"date":"2025-07-01"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"availability":{"id":7}}`, w.Body.String())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authed(http.MethodDelete, "/api/doctor/availabilities/7", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted_id":"7"}`, w.Body.String())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authed(http.MethodDelete, "/api/doctor/availabilities/8", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityHandler_PublicSlots(t *testing.T) {
	manager := new(MockAvailabilityManager)
	manager.On("PublicSlots", mock.Anything, "12", map[string]string{"from": "2025-06-04"}).
		Return(map[string]json.RawMessage{"slots": json.RawMessage(`{"2025-06-04":["09:00"]}`)}, nil)
	manager.On("PublicSlots", mock.Anything, "13", map[string]string{}).
		Return(nil, apperrors.NewUpstreamStatusError("backend", http.StatusBadGateway))
	mux := availabilityMux(manager)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/doctors/12/availabilities?from=2025-06-04", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slots":{"2025-06-04":["09:00"]}}`, w.Body.String())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/doctors/13/availabilities", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
