package entities

import (
	"encoding/json"
	"testing"
)

func TestDoctorFromRecord(t *testing.T) {
	raw := json.RawMessage(`{"id":7,"name":"Dr Koné","specialty":null,"address":"Cocody","latitude":"5.36","longitude":-4.01,"phone":"0102","email":null,"bio":"x"}`)

	doctor, err := DoctorFromRecord(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(doctor.ID) != "7" || doctor.Name != "Dr Koné" || doctor.Address != "Cocody" {
		t.Errorf("unexpected identity fields: %+v", doctor)
	}
	if doctor.Specialty != DefaultDoctorSpecialty {
		t.Errorf("missing specialty should default, got %q", doctor.Specialty)
	}
	if doctor.Type != "doctor" {
		t.Errorf("type = %q", doctor.Type)
	}
	if !doctor.Located() || *doctor.Latitude != 5.36 || *doctor.Longitude != -4.01 {
		t.Errorf("coordinates should parse from strings and numbers: %v %v", doctor.Latitude, doctor.Longitude)
	}
}

func TestDoctorFromRecord_UnusableCoordinates(t *testing.T) {
	cases := map[string]string{
		"missing":     `{"id":1}`,
		"null":        `{"id":1,"latitude":null,"longitude":null}`,
		"zero":        `{"id":1,"latitude":0,"longitude":"0"}`,
		"empty":       `{"id":1,"latitude":"","longitude":""}`,
		"non numeric": `{"id":1,"latitude":"north","longitude":"abc"}`,
		"boolean":     `{"id":1,"latitude":true,"longitude":true}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			doctor, err := DoctorFromRecord(json.RawMessage(body))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if doctor.Latitude != nil || doctor.Longitude != nil || doctor.Located() {
				t.Errorf("expected no coordinates, got %v %v", doctor.Latitude, doctor.Longitude)
			}
		})
	}
}

func TestDoctorFromRecord_Malformed(t *testing.T) {
	if _, err := DoctorFromRecord(json.RawMessage(`{"id":1,"name":42}`)); err == nil {
		t.Errorf("a non-string name should fail to decode")
	}
	if _, err := DoctorFromRecord(json.RawMessage(`[1,2]`)); err == nil {
		t.Errorf("a non-object record should fail to decode")
	}
}

func TestMapBounds_Contains(t *testing.T) {
	b := MapBounds{South: 5.2, North: 5.5, West: -4.2, East: -3.8}

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"inside", 5.3, -4.0, true},
		{"south west corner", 5.2, -4.2, true},
		{"north east corner", 5.5, -3.8, true},
		{"too far north", 5.51, -4.0, false},
		{"too far east", 5.3, -3.79, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}
