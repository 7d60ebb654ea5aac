package providers

import (
	"context"
	"encoding/json"

	"github.com/santeconnect/careconnect/internal/domain/entities"
)

// AvailabilityGateway is the booking backend's availability resource.
// token is the caller's bearer token, forwarded as-is.
type AvailabilityGateway interface {
	// ListDoctorAvailabilities returns the records exactly as the backend sent them
	ListDoctorAvailabilities(ctx context.Context, token string) ([]json.RawMessage, error)
	CreateDoctorAvailability(ctx context.Context, token string, payload entities.AvailabilityPayload) (json.RawMessage, error)
	UpdateDoctorAvailability(ctx context.Context, token, id string, payload entities.AvailabilityPayload) (json.RawMessage, error)
	DeleteDoctorAvailability(ctx context.Context, token, id string) (string, error)

	// GetPublicAvailabilities returns the raw JSON object served for a doctor's public calendar
	GetPublicAvailabilities(ctx context.Context, doctorID string, query map[string]string) (map[string]json.RawMessage, error)
}
