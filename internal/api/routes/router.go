package routes

import (
	"net/http"

	"github.com/santeconnect/careconnect/internal/api/handlers"
	"github.com/santeconnect/careconnect/internal/api/middleware"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	establishmentHandler *handlers.EstablishmentHandler
	geolocationHandler   *handlers.GeolocationHandler
	availabilityHandler  *handlers.AvailabilityHandler
	doctorHandler        *handlers.DoctorHandler

	rateLimiter    *middleware.RateLimiter
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. rateLimiter and metrics may be nil.
func NewRouter(
	establishmentHandler *handlers.EstablishmentHandler,
	geolocationHandler *handlers.GeolocationHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	doctorHandler *handlers.DoctorHandler,
	rateLimiter *middleware.RateLimiter,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                  http.NewServeMux(),
		establishmentHandler: establishmentHandler,
		geolocationHandler:   geolocationHandler,
		availabilityHandler:  availabilityHandler,
		doctorHandler:        doctorHandler,
		rateLimiter:          rateLimiter,
		allowedOrigins:       allowedOrigins,
		metrics:              metrics,
	}
}

// SetupRoutes configures all routes and returns the wrapped handler
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Establishments
	r.mux.HandleFunc("GET /api/establishments/search", r.establishmentHandler.Search)
	r.mux.HandleFunc("GET /api/establishments/search-by-name", r.establishmentHandler.SearchByName)
	r.mux.HandleFunc("GET /api/establishments/types", r.establishmentHandler.Types)
	r.mux.HandleFunc("GET /api/establishments/{type}/{id}", r.establishmentHandler.Details)

	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("GET /api/doctors/search", r.doctorHandler.Search)

	// Availability
	r.mux.HandleFunc("POST /api/availabilities/normalize", r.availabilityHandler.Normalize)
	r.mux.HandleFunc("GET /api/doctor/availabilities", r.availabilityHandler.List)
	r.mux.HandleFunc("POST /api/doctor/availabilities", r.availabilityHandler.Create)
	r.mux.HandleFunc("PUT /api/doctor/availabilities/{id}", r.availabilityHandler.Update)
	r.mux.HandleFunc("DELETE /api/doctor/availabilities/{id}", r.availabilityHandler.Delete)
	r.mux.HandleFunc("GET /api/doctors/{id}/availabilities", r.availabilityHandler.PublicSlots)

	var handler http.Handler = r.mux
	if r.rateLimiter != nil {
		handler = r.rateLimiter.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
