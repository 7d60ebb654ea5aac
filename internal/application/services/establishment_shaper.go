package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/domain/providers"
)

const earthRadiusKm = 6371.0

// AddressNotAvailable is shown when an element has no usable address tags
const AddressNotAvailable = "Address not available"

// HaversineKm returns the great-circle distance between two WGS84 points
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DetermineEstablishmentType classifies an element from its tags. The healthcare
// tag wins over amenity; an unrecognized amenity is rejected (ok=false) while an
// unrecognized healthcare value, or no tag at all, counts as a doctor.
func DetermineEstablishmentType(tags map[string]string) (entities.EstablishmentType, bool) {
	if healthcare := tags["healthcare"]; healthcare != "" {
		switch healthcare {
		case "hospital", "clinic", "pharmacy", "laboratory", "dentist", "doctor", "physiotherapist", "radiology":
			return entities.EstablishmentType(healthcare), true
		default:
			return entities.EstablishmentDoctor, true
		}
	}

	if amenity := tags["amenity"]; amenity != "" {
		switch amenity {
		case "hospital", "clinic", "pharmacy", "dentist":
			return entities.EstablishmentType(amenity), true
		case "doctors":
			return entities.EstablishmentDoctor, true
		default:
			return "", false
		}
	}

	return entities.EstablishmentDoctor, true
}

// DetermineSpecialty picks the most specific label: a healthcare or amenity tag
// that says more than the type itself, otherwise the type's default label.
func DetermineSpecialty(tags map[string]string, t entities.EstablishmentType) string {
	if healthcare := tags["healthcare"]; healthcare != "" && healthcare != string(t) {
		return healthcare
	}
	if amenity := tags["amenity"]; amenity != "" && amenity != string(t) {
		return amenity
	}
	if info, ok := entities.LookupTypeInfo(t); ok && info.Specialty != "" {
		return info.Specialty
	}
	return entities.DefaultSpecialtyLabel
}

// ShapeEstablishment converts a raw element into an Establishment relative to
// origin. Elements without coordinates or with an unrecognized type are skipped.
func ShapeEstablishment(el providers.GeoElement, origin providers.Coordinates, now time.Time) (entities.Establishment, bool) {
	lat, lon, ok := el.Position()
	if !ok {
		return entities.Establishment{}, false
	}

	tags := el.Tags
	if tags == nil {
		tags = map[string]string{}
	}

	kind, ok := DetermineEstablishmentType(tags)
	if !ok {
		return entities.Establishment{}, false
	}
	info := entities.TypeInfo(kind)

	name := firstNonEmpty(tags["name"], tags["name:fr"])
	if name == "" {
		name = "Unnamed " + strings.ToLower(info.Label)
	}

	openingHours := optionalTag(tags, "opening_hours")
	openNow := false
	if openingHours != nil {
		openNow = IsOpenNow(*openingHours, now)
	}

	return entities.Establishment{
		ID:           fmt.Sprintf("osm_%s_%d", el.Type, el.ID),
		Name:         name,
		Type:         kind,
		Icon:         info.Icon,
		Color:        info.Color,
		Lat:          lat,
		Lng:          lon,
		Address:      composeAddress(tags),
		Phone:        optionalTag(tags, "phone", "contact:phone"),
		Website:      optionalTag(tags, "website", "contact:website"),
		OpeningHours: openingHours,
		OpenNow:      openNow,
		Wheelchair:   tags["wheelchair"] == "yes",
		DistanceKm:   roundTo2(HaversineKm(origin.Latitude, origin.Longitude, lat, lon)),
		Specialty:    DetermineSpecialty(tags, kind),
		Operator:     optionalTag(tags, "operator"),
	}, true
}

// ShapeAll shapes every usable element and sorts the result by ascending
// distance. Equal distances keep their input order.
func ShapeAll(elements []providers.GeoElement, origin providers.Coordinates, now time.Time) []entities.Establishment {
	out := make([]entities.Establishment, 0, len(elements))
	for _, el := range elements {
		if est, ok := ShapeEstablishment(el, origin, now); ok {
			out = append(out, est)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

// composeAddress builds "<housenumber> <street>, <city>" from addr:* tags,
// falling back to a free-form address tag.
func composeAddress(tags map[string]string) string {
	street := strings.TrimSpace(strings.TrimSpace(tags["addr:housenumber"]) + " " + strings.TrimSpace(tags["addr:street"]))
	city := strings.TrimSpace(tags["addr:city"])

	switch {
	case street != "" && city != "":
		return street + ", " + city
	case street != "":
		return street
	case city != "":
		return city
	}
	if address := strings.TrimSpace(tags["address"]); address != "" {
		return address
	}
	return AddressNotAvailable
}

func optionalTag(tags map[string]string, keys ...string) *string {
	for _, key := range keys {
		if v := tags[key]; v != "" {
			return &v
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
