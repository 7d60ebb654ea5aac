package providers

import (
	"context"
)

// GeocodingProvider resolves a free-text location into coordinates
type GeocodingProvider interface {
	// Geocode converts an address to coordinates. A nil result with a nil error
	// means the provider found nothing for the address.
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Valid reports whether the coordinates are within WGS84 bounds
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
