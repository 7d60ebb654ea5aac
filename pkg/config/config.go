package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Env        string
	Server     ServerConfig
	Redis      RedisConfig
	Overpass   OverpassConfig
	Nominatim  NominatimConfig
	Geocoding  GeocodingConfig
	BackendAPI BackendAPIConfig
	Search     SearchConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OverpassConfig holds the geo query provider configuration.
// QueryTimeoutSeconds is the [timeout:N] hint embedded in every query; the HTTP
// client itself has no deadline.
type OverpassConfig struct {
	URL                 string
	QueryTimeoutSeconds int
	RequestsPerSecond   float64
	Burst               int
}

// NominatimConfig holds forward geocoding provider configuration
type NominatimConfig struct {
	URL           string
	UserAgent     string
	CountrySuffix string
	CountryCodes  string
}

// GeocodingConfig selects the geocoding provider ("nominatim" or "mock")
type GeocodingConfig struct {
	Provider string
}

// BackendAPIConfig holds the booking backend REST API configuration
type BackendAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SearchConfig holds geo-search defaults
type SearchConfig struct {
	DefaultLatitude     float64
	DefaultLongitude    float64
	DefaultRadiusMeters int
	NameRadiusMeters    int
}

// CORSConfig holds allowed origins for the SPA
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig holds inbound per-client rate limiting.
// TrustProxy keys clients by X-Forwarded-For and must only be set behind a
// proxy that overwrites the header.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	TrustProxy        bool
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from an optional .env file and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	// .env is optional
	_ = v.ReadInConfig()

	origins := splitList(v.GetString("ALLOWED_ORIGINS"))

	cfg := &Config{
		Env: v.GetString("APP_ENV"),
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Overpass: OverpassConfig{
			URL:                 v.GetString("OVERPASS_URL"),
			QueryTimeoutSeconds: v.GetInt("OVERPASS_QUERY_TIMEOUT"),
			RequestsPerSecond:   v.GetFloat64("OVERPASS_RPS"),
			Burst:               v.GetInt("OVERPASS_BURST"),
		},
		Nominatim: NominatimConfig{
			URL:           v.GetString("NOMINATIM_URL"),
			UserAgent:     v.GetString("NOMINATIM_USER_AGENT"),
			CountrySuffix: v.GetString("NOMINATIM_COUNTRY_SUFFIX"),
			CountryCodes:  v.GetString("NOMINATIM_COUNTRY_CODES"),
		},
		Geocoding: GeocodingConfig{
			Provider: v.GetString("GEOCODING_PROVIDER"),
		},
		BackendAPI: BackendAPIConfig{
			BaseURL: strings.TrimRight(v.GetString("BACKEND_API_URL"), "/"),
			Timeout: v.GetDuration("BACKEND_API_TIMEOUT"),
		},
		Search: SearchConfig{
			DefaultLatitude:     v.GetFloat64("SEARCH_DEFAULT_LAT"),
			DefaultLongitude:    v.GetFloat64("SEARCH_DEFAULT_LNG"),
			DefaultRadiusMeters: v.GetInt("SEARCH_DEFAULT_RADIUS"),
			NameRadiusMeters:    v.GetInt("SEARCH_NAME_RADIUS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: origins,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
			TrustProxy:        v.GetBool("RATE_LIMIT_TRUST_PROXY"),
		},
		OTEL: OTELConfig{
			ServiceName:    v.GetString("OTEL_SERVICE_NAME"),
			ServiceVersion: v.GetString("OTEL_SERVICE_VERSION"),
			Endpoint:       v.GetString("OTEL_ENDPOINT"),
			Enabled:        v.GetBool("OTEL_ENABLED"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("OVERPASS_QUERY_TIMEOUT", 10)
	v.SetDefault("OVERPASS_RPS", 2)
	v.SetDefault("OVERPASS_BURST", 4)

	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("NOMINATIM_USER_AGENT", "careconnect-bff/1.0")
	v.SetDefault("NOMINATIM_COUNTRY_SUFFIX", "Côte d'Ivoire")
	v.SetDefault("NOMINATIM_COUNTRY_CODES", "ci")
	v.SetDefault("GEOCODING_PROVIDER", "nominatim")

	v.SetDefault("BACKEND_API_URL", "http://localhost:8000/api")
	v.SetDefault("BACKEND_API_TIMEOUT", "15s")

	v.SetDefault("SEARCH_DEFAULT_LAT", 5.36)
	v.SetDefault("SEARCH_DEFAULT_LNG", -4.008)
	v.SetDefault("SEARCH_DEFAULT_RADIUS", 5000)
	v.SetDefault("SEARCH_NAME_RADIUS", 10000)

	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_TRUST_PROXY", false)

	v.SetDefault("OTEL_SERVICE_NAME", "careconnect-bff")
	v.SetDefault("OTEL_SERVICE_VERSION", "1.0.0")
	v.SetDefault("OTEL_ENDPOINT", "")
	v.SetDefault("OTEL_ENABLED", false)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Overpass.URL == "" {
		return fmt.Errorf("OVERPASS_URL is required")
	}
	if c.Search.DefaultRadiusMeters <= 0 {
		return fmt.Errorf("SEARCH_DEFAULT_RADIUS must be positive")
	}
	return nil
}

// Addr returns the HTTP listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
