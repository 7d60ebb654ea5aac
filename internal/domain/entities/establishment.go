package entities

import "sort"

// EstablishmentType is the kind of healthcare establishment shown on the map
type EstablishmentType string

const (
	EstablishmentHospital        EstablishmentType = "hospital"
	EstablishmentClinic          EstablishmentType = "clinic"
	EstablishmentPharmacy        EstablishmentType = "pharmacy"
	EstablishmentLaboratory      EstablishmentType = "laboratory"
	EstablishmentDentist         EstablishmentType = "dentist"
	EstablishmentDoctor          EstablishmentType = "doctor"
	EstablishmentPhysiotherapist EstablishmentType = "physiotherapist"
	EstablishmentRadiology       EstablishmentType = "radiology"
	EstablishmentEmergency       EstablishmentType = "emergency"
)

// EstablishmentTypeInfo is the display metadata of an establishment type
type EstablishmentTypeInfo struct {
	Type      EstablishmentType `json:"type"`
	Icon      string            `json:"icon"`
	Color     string            `json:"color"`
	Label     string            `json:"label"`
	Specialty string            `json:"specialty"`
}

var establishmentTypes = map[EstablishmentType]EstablishmentTypeInfo{
	EstablishmentHospital:        {Type: EstablishmentHospital, Icon: "Hospital", Color: "#EF4444", Label: "Hospital", Specialty: "Hospital"},
	EstablishmentClinic:          {Type: EstablishmentClinic, Icon: "Building2", Color: "#EF4444", Label: "Clinic", Specialty: "Clinic"},
	EstablishmentPharmacy:        {Type: EstablishmentPharmacy, Icon: "Pill", Color: "#8B5CF6", Label: "Pharmacy", Specialty: "Pharmacy"},
	EstablishmentLaboratory:      {Type: EstablishmentLaboratory, Icon: "TestTube", Color: "#F59E0B", Label: "Laboratory", Specialty: "Medical laboratory"},
	EstablishmentDentist:         {Type: EstablishmentDentist, Icon: "Smile", Color: "#06B6D4", Label: "Dentist", Specialty: "Dentistry"},
	EstablishmentDoctor:          {Type: EstablishmentDoctor, Icon: "Stethoscope", Color: "#10B981", Label: "Doctor", Specialty: "General medicine"},
	EstablishmentPhysiotherapist: {Type: EstablishmentPhysiotherapist, Icon: "Activity", Color: "#EC4899", Label: "Physiotherapist", Specialty: "Physiotherapy"},
	EstablishmentRadiology:       {Type: EstablishmentRadiology, Icon: "Scan", Color: "#F97316", Label: "Radiology", Specialty: "Radiology"},
	EstablishmentEmergency:       {Type: EstablishmentEmergency, Icon: "Ambulance", Color: "#DC2626", Label: "Emergency", Specialty: "Emergency care"},
}

// DefaultSpecialtyLabel is used when a type has no dedicated label
const DefaultSpecialtyLabel = "Medical establishment"

// LookupTypeInfo returns the metadata for t; ok is false for unknown types
func LookupTypeInfo(t EstablishmentType) (info EstablishmentTypeInfo, ok bool) {
	info, ok = establishmentTypes[t]
	return info, ok
}

// TypeInfo returns the metadata for t, falling back to the doctor entry for
// unknown types.
func TypeInfo(t EstablishmentType) EstablishmentTypeInfo {
	if info, ok := establishmentTypes[t]; ok {
		return info
	}
	return establishmentTypes[EstablishmentDoctor]
}

// EstablishmentTypes returns the metadata of every type, sorted by type key
func EstablishmentTypes() []EstablishmentTypeInfo {
	out := make([]EstablishmentTypeInfo, 0, len(establishmentTypes))
	for _, info := range establishmentTypes {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Geo categories a specialty can map onto. "doctors" is the amenity spelling.
const (
	CategoryHospital        = "hospital"
	CategoryClinic          = "clinic"
	CategoryPharmacy        = "pharmacy"
	CategoryLaboratory      = "laboratory"
	CategoryDentist         = "dentist"
	CategoryDoctor          = "doctor"
	CategoryDoctors         = "doctors"
	CategoryPhysiotherapist = "physiotherapist"
)

var specialtyCategories = map[string][]string{
	"general_practitioner": {CategoryDoctor, CategoryDoctors},
	"cardiologist":         {CategoryDoctor, CategoryDoctors},
	"pediatrician":         {CategoryDoctor, CategoryDoctors},
	"gynecologist":         {CategoryDoctor, CategoryDoctors},
	"dermatologist":        {CategoryDoctor, CategoryDoctors},
	"ophthalmologist":      {CategoryDoctor, CategoryDoctors},
	"orthopedic":           {CategoryDoctor, CategoryDoctors},
	"neurologist":          {CategoryDoctor, CategoryDoctors},
	"psychiatrist":         {CategoryDoctor, CategoryDoctors},
	"dentist":              {CategoryDentist},
	"surgeon":              {CategoryDoctor, CategoryDoctors},
	"physiotherapist":      {CategoryPhysiotherapist},
	"pharmacy":             {CategoryPharmacy},
	"laboratory":           {CategoryLaboratory},
	"hospital":             {CategoryHospital},
	"clinic":               {CategoryClinic},
	"medical_center":       {CategoryClinic, CategoryHospital},
	"radiology":            {CategoryClinic},
	"emergency":            {CategoryHospital, CategoryClinic},
}

// SpecialtyCategories returns the geo categories a specialty filter maps to.
// ok is false for unknown specialty keys.
func SpecialtyCategories(specialty string) (categories []string, ok bool) {
	categories, ok = specialtyCategories[specialty]
	return categories, ok
}

// SpecialtyKeys returns every known specialty filter key, sorted
func SpecialtyKeys() []string {
	keys := make([]string, 0, len(specialtyCategories))
	for key := range specialtyCategories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Establishment is a geo-located healthcare provider returned by a search.
// It is built fresh for every search and never persisted.
type Establishment struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         EstablishmentType `json:"type"`
	Icon         string            `json:"icon"`
	Color        string            `json:"color"`
	Lat          float64           `json:"lat"`
	Lng          float64           `json:"lng"`
	Address      string            `json:"address"`
	Phone        *string           `json:"phone"`
	Website      *string           `json:"website"`
	OpeningHours *string           `json:"opening_hours"`
	OpenNow      bool              `json:"open_now"`
	Wheelchair   bool              `json:"wheelchair"`
	DistanceKm   float64           `json:"distance_km"`
	Specialty    string            `json:"specialty"`
	Operator     *string           `json:"operator"`
}
