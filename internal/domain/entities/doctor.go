package entities

import (
	"encoding/json"
	"math"
)

// DefaultDoctorSpecialty is shown for doctors registered without a specialty
const DefaultDoctorSpecialty = "Médecin généraliste"

// Doctor is a practitioner registered on the booking backend
type Doctor struct {
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	Specialty string          `json:"specialty"`
	Type      string          `json:"type"`
	Address   string          `json:"address"`
	Latitude  *float64        `json:"latitude"`
	Longitude *float64        `json:"longitude"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
}

// Located reports whether both coordinates are known
func (d Doctor) Located() bool {
	return d.Latitude != nil && d.Longitude != nil
}

type doctorRecord struct {
	ID        json.RawMessage `json:"id"`
	Name      *string         `json:"name"`
	Specialty *string         `json:"specialty"`
	Address   *string         `json:"address"`
	Latitude  any             `json:"latitude"`
	Longitude any             `json:"longitude"`
	Phone     *string         `json:"phone"`
	Email     *string         `json:"email"`
}

// DoctorFromRecord decodes one backend doctor record. Coordinates that are
// missing, zero or not numeric are left nil.
func DoctorFromRecord(raw json.RawMessage) (Doctor, error) {
	var rec doctorRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Doctor{}, err
	}

	doctor := Doctor{
		ID:        rec.ID,
		Name:      deref(rec.Name),
		Specialty: deref(rec.Specialty),
		Type:      string(EstablishmentDoctor),
		Address:   deref(rec.Address),
		Latitude:  coordinate(rec.Latitude),
		Longitude: coordinate(rec.Longitude),
		Phone:     deref(rec.Phone),
		Email:     deref(rec.Email),
	}
	if doctor.Specialty == "" {
		doctor.Specialty = DefaultDoctorSpecialty
	}
	if len(doctor.ID) == 0 {
		doctor.ID = json.RawMessage("null")
	}
	return doctor, nil
}

func coordinate(v any) *float64 {
	if _, isBool := v.(bool); isBool {
		return nil
	}
	f := ToNumber(v)
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MapBounds is the visible rectangle of the map, in degrees
type MapBounds struct {
	South float64 `json:"south"`
	North float64 `json:"north"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// Contains reports whether the point lies inside the bounds, edges included
func (b MapBounds) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}
