package providers

import (
	"context"
	"encoding/json"
)

// DoctorDirectory is the booking backend's public doctor listing
type DoctorDirectory interface {
	// SearchDoctors runs the backend's keyword search and returns the records as sent
	SearchDoctors(ctx context.Context, search string) ([]json.RawMessage, error)
}
