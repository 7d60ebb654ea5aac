package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/santeconnect/careconnect/internal/domain/providers"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
	apperrors "github.com/santeconnect/careconnect/pkg/errors"
)

const (
	nominatimSearchURL     = "https://nominatim.openstreetmap.org/search"
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
	defaultHTTPTimeout     = 8 * time.Second
	geocodeCacheNamespace  = "geocode"
	minQueryLength         = 2
)

// NominatimOptions tunes the Nominatim provider
type NominatimOptions struct {
	BaseURL       string
	UserAgent     string
	CountrySuffix string
	CountryCodes  string
	HTTPClient    *http.Client
	Metrics       *observability.Metrics
}

// NominatimProvider implements GeocodingProvider using the OpenStreetMap
// Nominatim search API, restricted to one country.
type NominatimProvider struct {
	baseURL       string
	userAgent     string
	countrySuffix string
	countryCodes  string
	httpClient    *http.Client
	cache         providers.CacheProvider
	metrics       *observability.Metrics
}

// NewNominatimProvider creates a new Nominatim geocoding provider. cache may be nil.
func NewNominatimProvider(cache providers.CacheProvider, opts NominatimOptions) *NominatimProvider {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = nominatimSearchURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "careconnect-bff/1.0"
	}
	return &NominatimProvider{
		baseURL:       opts.BaseURL,
		userAgent:     opts.UserAgent,
		countrySuffix: opts.CountrySuffix,
		countryCodes:  opts.CountryCodes,
		httpClient:    opts.HTTPClient,
		cache:         cache,
		metrics:       opts.Metrics,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text location. Inputs shorter than two characters and
// searches without a match return nil, nil.
func (n *NominatimProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if len([]rune(trimmed)) < minQueryLength {
		return nil, nil
	}

	cacheKey := "geo:v1:geocode:" + hashKey(strings.ToLower(trimmed))
	if n.cache != nil {
		cached, err := n.cache.Get(ctx, cacheKey)
		if err == nil && len(cached) > 0 {
			var coords providers.Coordinates
			if err := json.Unmarshal(cached, &coords); err == nil {
				observability.RecordCacheHit(ctx, n.metrics, geocodeCacheNamespace)
				return &coords, nil
			}
		} else if err != nil && !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("geocode cache read failed")
		}
		observability.RecordCacheMiss(ctx, n.metrics, geocodeCacheNamespace)
	}

	results, err := n.search(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil, apperrors.NewExternalError("nominatim returned unparseable coordinates", errors.Join(latErr, lonErr))
	}
	coords := providers.Coordinates{Latitude: lat, Longitude: lon}

	if n.cache != nil {
		if payload, err := json.Marshal(coords); err == nil {
			_ = n.cache.Set(ctx, cacheKey, payload, defaultGeocodeCacheTTL)
		}
	}

	return &coords, nil
}

func (n *NominatimProvider) search(ctx context.Context, query string) ([]nominatimResult, error) {
	q := query
	if n.countrySuffix != "" {
		q = query + ", " + n.countrySuffix
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", q)
	params.Set("limit", "1")
	if n.countryCodes != "" {
		params.Set("countrycodes", n.countryCodes)
	}

	reqURL := fmt.Sprintf("%s?%s", n.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build geocode request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewUpstreamStatusError("nominatim", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, apperrors.NewExternalError("failed to decode geocode response", err)
	}
	return results, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

var _ providers.GeocodingProvider = (*NominatimProvider)(nil)
