package main

import (
	"context"
	"strings"

	"github.com/santeconnect/careconnect/internal/adapters/backendapi"
	"github.com/santeconnect/careconnect/internal/adapters/cache"
	"github.com/santeconnect/careconnect/internal/adapters/providers/geolocation"
	"github.com/santeconnect/careconnect/internal/adapters/providers/overpass"
	"github.com/santeconnect/careconnect/internal/application/services"
	"github.com/santeconnect/careconnect/internal/domain/providers"
	"github.com/santeconnect/careconnect/internal/infrastructure/clients/redis"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
	"github.com/santeconnect/careconnect/pkg/config"
)

// app is the set of services shared by the server and the one-shot commands
type app struct {
	search       *services.GeoSearchService
	geocoder     providers.GeocodingProvider
	availability *services.AvailabilityService
	doctors      *services.DoctorSearchService
	redis        *redis.Client
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// buildApp wires adapters and services. Redis is optional: when it is disabled
// or unreachable the service runs without a cache.
func buildApp(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) *app {
	logger := observability.GetLogger()
	a := &app{}

	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.RedisAddr()).Msg("redis unavailable, running without cache")
		} else {
			a.redis = client
			cacheProvider = cache.NewRedisAdapter(client)
			logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis cache enabled")
		}
	}

	geoProvider := overpass.NewClient(cfg.Overpass.URL,
		overpass.WithRateLimit(cfg.Overpass.RequestsPerSecond, cfg.Overpass.Burst),
	)

	searchCfg := services.DefaultGeoSearchConfig()
	searchCfg.DefaultPosition = providers.Coordinates{
		Latitude:  cfg.Search.DefaultLatitude,
		Longitude: cfg.Search.DefaultLongitude,
	}
	searchCfg.DefaultRadius = cfg.Search.DefaultRadiusMeters
	searchCfg.SearchByNameRadius = cfg.Search.NameRadiusMeters
	searchCfg.QueryTimeoutSeconds = cfg.Overpass.QueryTimeoutSeconds
	a.search = services.NewGeoSearchService(geoProvider, cacheProvider, metrics, searchCfg)

	switch strings.ToLower(cfg.Geocoding.Provider) {
	case "mock":
		a.geocoder = geolocation.NewMockGeocodingProvider()
	default:
		a.geocoder = geolocation.NewNominatimProvider(cacheProvider, geolocation.NominatimOptions{
			BaseURL:       cfg.Nominatim.URL,
			UserAgent:     cfg.Nominatim.UserAgent,
			CountrySuffix: cfg.Nominatim.CountrySuffix,
			CountryCodes:  cfg.Nominatim.CountryCodes,
			Metrics:       metrics,
		})
	}

	backend := backendapi.NewClient(cfg.BackendAPI.BaseURL, cfg.BackendAPI.Timeout)
	a.availability = services.NewAvailabilityService(backend)
	a.doctors = services.NewDoctorSearchService(backend)

	return a
}
