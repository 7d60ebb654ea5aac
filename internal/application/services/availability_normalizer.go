package services

import (
	"regexp"

	"github.com/santeconnect/careconnect/internal/domain/entities"
)

var hourMinutePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// EnsureSeconds appends ":00" to an exact HH:MM string. Every other value,
// including HH:MM:SS strings, non-strings and nil, is returned unchanged.
func EnsureSeconds(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if hourMinutePattern.MatchString(s) {
		return s + ":00"
	}
	return s
}

// NormalizeAvailability turns a raw availability form submission into the
// payload the booking backend accepts. It never fails: range and ordering checks
// belong to ValidateAvailabilityForm, and anything still missing is left for the
// backend to reject.
func NormalizeAvailability(in entities.AvailabilityInput) entities.AvailabilityPayload {
	start := optionalTime(in, entities.FieldStartTime, in.StartTime)
	end := optionalTime(in, entities.FieldEndTime, in.EndTime)

	if entities.Truthy(in.IsRecurring) {
		payload := entities.RecurringAvailability{
			StartTime: start,
			EndTime:   end,
			Extra:     in.Extra,
		}
		if in.DayOfWeek != nil {
			day := entities.ToNumber(in.DayOfWeek)
			payload.DayOfWeek = &day
		}
		return payload
	}

	payload := entities.OneOffAvailability{
		StartTime: start,
		EndTime:   end,
		Extra:     in.Extra,
	}
	if date, ok := in.Date.(string); ok && date != "" {
		payload.Date = &date
	}
	return payload
}

func optionalTime(in entities.AvailabilityInput, field string, value any) entities.OptionalValue {
	if !in.Has(field) {
		return entities.OptionalValue{}
	}
	return entities.Some(EnsureSeconds(value))
}
