package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	"github.com/santeconnect/careconnect/internal/domain/providers"
	"github.com/santeconnect/careconnect/internal/infrastructure/observability"
)

// AvailabilityService handles a doctor's availability slots against the booking backend
type AvailabilityService struct {
	gateway providers.AvailabilityGateway
	now     func() time.Time
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(gateway providers.AvailabilityGateway) *AvailabilityService {
	return &AvailabilityService{
		gateway: gateway,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to anchor public slots
func (s *AvailabilityService) WithClock(now func() time.Time) *AvailabilityService {
	s.now = now
	return s
}

// Prepare validates a form submission and returns the normalized payload
func (s *AvailabilityService) Prepare(in entities.AvailabilityInput) (entities.AvailabilityPayload, error) {
	if err := ValidateAvailabilityForm(in); err != nil {
		return nil, err
	}
	return NormalizeAvailability(in), nil
}

// List returns the doctor's availabilities. Backend failures are logged and
// yield an empty list.
func (s *AvailabilityService) List(ctx context.Context, token string) []json.RawMessage {
	list, err := s.gateway.ListDoctorAvailabilities(ctx, token)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to list availabilities")
		return []json.RawMessage{}
	}
	if list == nil {
		return []json.RawMessage{}
	}
	return list
}

// Create validates, normalizes and stores a new availability
func (s *AvailabilityService) Create(ctx context.Context, token string, in entities.AvailabilityInput) (json.RawMessage, error) {
	payload, err := s.Prepare(in)
	if err != nil {
		return nil, err
	}
	return s.gateway.CreateDoctorAvailability(ctx, token, payload)
}

// Update validates, normalizes and replaces an existing availability
func (s *AvailabilityService) Update(ctx context.Context, token, id string, in entities.AvailabilityInput) (json.RawMessage, error) {
	payload, err := s.Prepare(in)
	if err != nil {
		return nil, err
	}
	return s.gateway.UpdateDoctorAvailability(ctx, token, id, payload)
}

// Delete removes an availability and returns the deleted id
func (s *AvailabilityService) Delete(ctx context.Context, token, id string) (string, error) {
	return s.gateway.DeleteDoctorAvailability(ctx, token, id)
}

// PublicSlots returns a doctor's public calendar. When the backend sends a raw
// availabilities array instead of a "slots" object, slots are built from it for
// the next DefaultSlotHorizonDays days.
func (s *AvailabilityService) PublicSlots(ctx context.Context, doctorID string, query map[string]string) (map[string]json.RawMessage, error) {
	data, err := s.gateway.GetPublicAvailabilities(ctx, doctorID, query)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return data, nil
	}
	if _, ok := data["slots"]; ok {
		return data, nil
	}

	raw, ok := data["availabilities"]
	if !ok {
		return data, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil || records == nil {
		if err != nil {
			observability.LoggerFromContext(ctx).Debug().Err(err).Str("doctor_id", doctorID).Msg("public calendar without usable availabilities")
		}
		return data, nil
	}

	availabilities, skipped := DecodeAvailabilities(records)
	if skipped > 0 {
		observability.LoggerFromContext(ctx).Warn().Int("skipped", skipped).Str("doctor_id", doctorID).Msg("ignored malformed availability records")
	}

	slots, err := json.Marshal(BuildSlots(availabilities, s.now(), DefaultSlotHorizonDays))
	if err != nil {
		return nil, err
	}
	data["slots"] = slots
	return data, nil
}
