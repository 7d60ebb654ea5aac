package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/domain/providers"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
)

const (
	detailsCacheTTLSeconds = 24 * 60 * 60
	detailsCacheNamespace  = "geo_details"
)

// GeoSearchConfig holds the tunables of the establishment search
type GeoSearchConfig struct {
	DefaultPosition     providers.Coordinates
	DefaultRadius       int
	SearchByNameRadius  int
	QueryTimeoutSeconds int

	// A search with fewer than ExpansionThreshold results at a radius of at most
	// ExpansionMaxRadius is retried at twice the radius, capped at MaxExpandedRadius.
	ExpansionThreshold int
	ExpansionMaxRadius int
	MaxExpandedRadius  int
}

// DefaultGeoSearchConfig centres searches on Abidjan
func DefaultGeoSearchConfig() GeoSearchConfig {
	return GeoSearchConfig{
		DefaultPosition:     providers.Coordinates{Latitude: 5.36, Longitude: -4.008},
		DefaultRadius:       5000,
		SearchByNameRadius:  10000,
		QueryTimeoutSeconds: DefaultQueryTimeoutSeconds,
		ExpansionThreshold:  5,
		ExpansionMaxRadius:  10000,
		MaxExpandedRadius:   20000,
	}
}

// GeoSearchService finds healthcare establishments around a position
type GeoSearchService struct {
	provider providers.GeoQueryProvider
	cache    providers.CacheProvider
	metrics  *observability.Metrics
	cfg      GeoSearchConfig
	now      func() time.Time
}

// NewGeoSearchService creates a new establishment search service. cache and
// metrics may be nil.
func NewGeoSearchService(
	provider providers.GeoQueryProvider,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
	cfg GeoSearchConfig,
) *GeoSearchService {
	defaults := DefaultGeoSearchConfig()
	if cfg.DefaultRadius <= 0 {
		cfg.DefaultRadius = defaults.DefaultRadius
	}
	if cfg.SearchByNameRadius <= 0 {
		cfg.SearchByNameRadius = defaults.SearchByNameRadius
	}
	if cfg.ExpansionThreshold <= 0 {
		cfg.ExpansionThreshold = defaults.ExpansionThreshold
	}
	if cfg.ExpansionMaxRadius <= 0 {
		cfg.ExpansionMaxRadius = defaults.ExpansionMaxRadius
	}
	if cfg.MaxExpandedRadius <= 0 {
		cfg.MaxExpandedRadius = defaults.MaxExpandedRadius
	}

	return &GeoSearchService{
		provider: provider,
		cache:    cache,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for open_now
func (s *GeoSearchService) WithClock(now func() time.Time) *GeoSearchService {
	s.now = now
	return s
}

// Search returns establishments around position sorted by distance. A nil
// position searches around the default position. Search never fails: every
// provider failure degrades to an empty list.
func (s *GeoSearchService) Search(
	ctx context.Context,
	position *providers.Coordinates,
	radiusMeters int,
	textQuery string,
	specialty string,
) []entities.Establishment {
	ctx, span := observability.StartSpan(ctx, "GeoSearchService.Search")
	defer span.End()

	origin := s.cfg.DefaultPosition
	if position != nil {
		origin = *position
	}
	if !origin.Valid() {
		return []entities.Establishment{}
	}
	if radiusMeters <= 0 {
		radiusMeters = s.cfg.DefaultRadius
	}

	req := searchRequest{
		origin:    origin,
		radius:    radiusMeters,
		text:      strings.TrimSpace(textQuery),
		specialty: strings.TrimSpace(specialty),
	}
	observability.SetSpanAttributes(span,
		attribute.Int("search.radius", req.radius),
		attribute.String("search.specialty", req.specialty),
		attribute.Bool("search.has_text", req.text != ""),
	)

	elements, ok := s.runStages(ctx, req)
	if !ok {
		return []entities.Establishment{}
	}

	shaped := ShapeAll(elements, origin, s.now())
	result := applyPostFilters(shaped, req)
	span.SetAttributes(attribute.Int("search.results", len(result)))
	return result
}

// SearchByName is a text search over a wider default radius. An empty query
// returns no results.
func (s *GeoSearchService) SearchByName(
	ctx context.Context,
	query string,
	position *providers.Coordinates,
	radiusMeters int,
) []entities.Establishment {
	if strings.TrimSpace(query) == "" {
		return []entities.Establishment{}
	}
	if radiusMeters <= 0 {
		radiusMeters = s.cfg.SearchByNameRadius
	}
	return s.Search(ctx, position, radiusMeters, query, "")
}

// Details returns the raw element, or nil when it does not exist or the lookup
// failed.
func (s *GeoSearchService) Details(ctx context.Context, elementType string, id int64) *providers.GeoElement {
	ctx, span := observability.StartSpan(ctx, "GeoSearchService.Details")
	defer span.End()

	switch elementType {
	case "node", "way", "relation":
	default:
		return nil
	}
	if id <= 0 {
		return nil
	}

	logger := observability.LoggerFromContext(ctx)
	key := detailsCacheKey(elementType, id)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var el providers.GeoElement
			if jsonErr := json.Unmarshal(data, &el); jsonErr == nil {
				observability.RecordCacheHit(ctx, s.metrics, detailsCacheNamespace)
				return &el
			}
		case !errors.Is(err, providers.ErrCacheMiss):
			logger.Warn().Err(err).Str("key", key).Msg("details cache read failed")
		}
		observability.RecordCacheMiss(ctx, s.metrics, detailsCacheNamespace)
	}

	start := time.Now()
	elements, err := s.provider.Interpret(ctx, BuildElementQuery(elementType, id))
	observability.RecordGeoQuery(ctx, s.metrics, queryOutcome(elements, err), time.Since(start))
	if err != nil {
		observability.RecordError(span, err)
		logger.Warn().Err(err).Str("element", fmt.Sprintf("%s/%d", elementType, id)).Msg("details lookup failed")
		return nil
	}
	if len(elements) == 0 {
		return nil
	}

	el := elements[0]
	if s.cache != nil {
		if data, err := json.Marshal(el); err == nil {
			if err := s.cache.Set(ctx, key, data, detailsCacheTTLSeconds); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("details cache write failed")
			}
		}
	}
	return &el
}

func (s *GeoSearchService) query(ctx context.Context, origin providers.Coordinates, radius int, specialty string) ([]providers.GeoElement, error) {
	q := BuildSearchQuery(origin.Latitude, origin.Longitude, radius, specialty, s.cfg.QueryTimeoutSeconds)

	start := time.Now()
	elements, err := s.provider.Interpret(ctx, q)
	observability.RecordGeoQuery(ctx, s.metrics, queryOutcome(elements, err), time.Since(start))
	return elements, err
}

func queryOutcome(elements []providers.GeoElement, err error) string {
	switch {
	case err != nil:
		return "error"
	case len(elements) == 0:
		return "empty"
	default:
		return "ok"
	}
}

func detailsCacheKey(elementType string, id int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", elementType, id)))
	return "geo:details:" + hex.EncodeToString(sum[:8])
}
