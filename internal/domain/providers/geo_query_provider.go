package providers

import (
	"context"
)

// GeoQueryProvider runs a structured query against a third-party geo database
// (Overpass) and returns the raw tagged elements.
// Upstream HTTP failures are returned as *errors.AppError carrying StatusCode.
type GeoQueryProvider interface {
	Interpret(ctx context.Context, query string) ([]GeoElement, error)
}

// GeoElement is a raw element as returned by the geo provider.
// Nodes carry Lat/Lon directly, ways and relations carry a Center.
type GeoElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *GeoPoint         `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// GeoPoint is a bare coordinate pair in provider notation
type GeoPoint struct {
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`
}

// Position returns the element's coordinates, preferring the node position over
// the way center. ok is false when neither is available.
func (e GeoElement) Position() (lat, lon float64, ok bool) {
	if e.Lat != nil && e.Lon != nil {
		return *e.Lat, *e.Lon, true
	}
	if e.Center != nil && e.Center.Lat != nil && e.Center.Lon != nil {
		return *e.Center.Lat, *e.Center.Lon, true
	}
	return 0, 0, false
}

// Tag returns the tag value or "" when absent
func (e GeoElement) Tag(key string) string {
	if e.Tags == nil {
		return ""
	}
	return e.Tags[key]
}
