package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/santeconnect/careconnect/internal/api/handlers"
	"github.com/santeconnect/careconnect/internal/domain/providers"
)

type MockGeocodingProvider struct {
	mock.Mock
}

func (m *MockGeocodingProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Coordinates), args.Error(1)
}

func TestGeolocationHandler_Geocode(t *testing.T) {
	provider := new(MockGeocodingProvider)
	handler := handlers.NewGeolocationHandler(provider)

	provider.On("Geocode", mock.Anything, "Cocody").Return(&providers.Coordinates{Latitude: 5.3599, Longitude: -3.9676}, nil)
	provider.On("Geocode", mock.Anything, "Nowhere").Return(nil, nil)
	provider.On("Geocode", mock.Anything, "Bouaké").Return(nil, errors.New("upstream down"))

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Geocode(w, httptest.NewRequest(http.MethodGet, "/api/geocode?address=Cocody", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Cocody", body["address"])
		assert.InDelta(t, 5.3599, body["lat"], 1e-9)
		assert.InDelta(t, -3.9676, body["lng"], 1e-9)
	})

	t.Run("missing address", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Geocode(w, httptest.NewRequest(http.MethodGet, "/api/geocode", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no match", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Geocode(w, httptest.NewRequest(http.MethodGet, "/api/geocode?address=Nowhere", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("provider failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Geocode(w, httptest.NewRequest(http.MethodGet, "/api/geocode?address=Bouak%C3%A9", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
