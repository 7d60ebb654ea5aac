package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/santeconnect/careconnect/internal/domain/entities"
)

// DefaultQueryTimeoutSeconds is the server-side timeout hint embedded in queries
const DefaultQueryTimeoutSeconds = 10

// categorySelectors lists the Overpass tag filters queried for each geo category
var categorySelectors = map[string][]string{
	entities.CategoryHospital: {
		`node["amenity"="hospital"]`, `way["amenity"="hospital"]`,
		`node["healthcare"="hospital"]`, `way["healthcare"="hospital"]`,
	},
	entities.CategoryClinic: {
		`node["amenity"="clinic"]`, `way["amenity"="clinic"]`,
		`node["healthcare"="clinic"]`, `way["healthcare"="clinic"]`,
	},
	entities.CategoryPharmacy: {
		`node["amenity"="pharmacy"]`, `way["amenity"="pharmacy"]`,
		`node["healthcare"="pharmacy"]`, `way["healthcare"="pharmacy"]`,
	},
	entities.CategoryDentist: {
		`node["amenity"="dentist"]`, `way["amenity"="dentist"]`,
		`node["healthcare"="dentist"]`, `way["healthcare"="dentist"]`,
	},
	entities.CategoryLaboratory: {
		`node["healthcare"="laboratory"]`, `way["healthcare"="laboratory"]`,
	},
	entities.CategoryPhysiotherapist: {
		`node["healthcare"="physiotherapist"]`, `way["healthcare"="physiotherapist"]`,
	},
	entities.CategoryDoctor: {
		`node["amenity"="doctors"]`, `way["amenity"="doctors"]`,
		`node["healthcare"="doctor"]`, `way["healthcare"="doctor"]`,
	},
}

// broadSelectors is used when no (known) specialty filter is given
var broadSelectors = []string{
	`node["amenity"="hospital"]`,
	`node["amenity"="clinic"]`,
	`node["amenity"="pharmacy"]`,
	`node["amenity"="dentist"]`,
	`node["amenity"="doctors"]`,
	`node["healthcare"="hospital"]`,
	`node["healthcare"="clinic"]`,
	`node["healthcare"="pharmacy"]`,
	`node["healthcare"="dentist"]`,
	`node["healthcare"="laboratory"]`,
	`node["healthcare"="physiotherapist"]`,
	`node["healthcare"="doctor"]`,
	`way["amenity"="hospital"]`,
	`way["amenity"="clinic"]`,
	`way["amenity"="pharmacy"]`,
	`way["healthcare"]`,
}

// BuildSearchQuery builds the Overpass QL union of healthcare selectors within
// radiusMeters of (lat, lng). An unknown or empty specialty queries every category.
func BuildSearchQuery(lat, lng float64, radiusMeters int, specialty string, timeoutSeconds int) string {
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultQueryTimeoutSeconds
	}

	selectors := broadSelectors
	if categories, ok := entities.SpecialtyCategories(specialty); ok && specialty != "" {
		selectors = nil
		seen := make(map[string]bool, len(categories))
		for _, category := range categories {
			if category == entities.CategoryDoctors {
				category = entities.CategoryDoctor
			}
			if seen[category] {
				continue
			}
			seen[category] = true
			selectors = append(selectors, categorySelectors[category]...)
		}
	}

	around := fmt.Sprintf("(around:%d,%s,%s);", radiusMeters, formatCoordinate(lat), formatCoordinate(lng))

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSeconds)
	for _, selector := range selectors {
		b.WriteString("  ")
		b.WriteString(selector)
		b.WriteString(around)
		b.WriteByte('\n')
	}
	b.WriteString(");\nout center body;\n")
	return b.String()
}

// BuildElementQuery fetches a single OSM element by type and id
func BuildElementQuery(elementType string, id int64) string {
	return fmt.Sprintf("[out:json];\n%s(%d);\nout body;\n", elementType, id)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
