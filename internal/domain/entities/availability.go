package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Availability form field names
const (
	FieldIsRecurring = "is_recurring"
	FieldDayOfWeek   = "day_of_week"
	FieldDate        = "date"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
)

// AvailabilityInput is a raw availability form submission. Values keep the
// dynamic type they were sent with (bool, float64, string or nil) because the
// form is loosely typed: is_recurring may arrive as "1", day_of_week as "5".
type AvailabilityInput struct {
	IsRecurring any
	DayOfWeek   any
	Date        any
	StartTime   any
	EndTime     any

	// Extra holds the fields the normalizer does not interpret (id, doctor_id...).
	Extra map[string]json.RawMessage

	present map[string]bool
}

// UnmarshalJSON implements json.Unmarshaler and records which keys were sent.
func (in *AvailabilityInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*in = AvailabilityInput{present: make(map[string]bool, len(raw))}
	for key, value := range raw {
		in.present[key] = true

		var target *any
		switch key {
		case FieldIsRecurring:
			target = &in.IsRecurring
		case FieldDayOfWeek:
			target = &in.DayOfWeek
		case FieldDate:
			target = &in.Date
		case FieldStartTime:
			target = &in.StartTime
		case FieldEndTime:
			target = &in.EndTime
		default:
			if in.Extra == nil {
				in.Extra = make(map[string]json.RawMessage)
			}
			in.Extra[key] = value
			continue
		}

		if err := json.Unmarshal(value, target); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
	}
	return nil
}

// Has reports whether the field was part of the submission. For inputs built in
// code rather than decoded, a field is present when its value is non-nil.
func (in AvailabilityInput) Has(field string) bool {
	if in.present != nil {
		return in.present[field]
	}
	switch field {
	case FieldIsRecurring:
		return in.IsRecurring != nil
	case FieldDayOfWeek:
		return in.DayOfWeek != nil
	case FieldDate:
		return in.Date != nil
	case FieldStartTime:
		return in.StartTime != nil
	case FieldEndTime:
		return in.EndTime != nil
	default:
		_, ok := in.Extra[field]
		return ok
	}
}

// OptionalValue is a JSON value that may be entirely absent from a payload.
type OptionalValue struct {
	Value   any
	Present bool
}

// Some wraps a present value
func Some(v any) OptionalValue {
	return OptionalValue{Value: v, Present: true}
}

// AvailabilityPayload is the normalized body sent to the booking backend.
// It is either a RecurringAvailability or a OneOffAvailability.
type AvailabilityPayload interface {
	json.Marshaler
	Recurring() bool
	Times() (start, end OptionalValue)
}

// RecurringAvailability is a weekly slot keyed by ISO day of week (1=Monday).
// A nil DayOfWeek is omitted from the payload; a date is never sent.
type RecurringAvailability struct {
	DayOfWeek *float64
	StartTime OptionalValue
	EndTime   OptionalValue
	Extra     map[string]json.RawMessage
}

// Recurring implements AvailabilityPayload
func (RecurringAvailability) Recurring() bool { return true }

// Times implements AvailabilityPayload
func (r RecurringAvailability) Times() (OptionalValue, OptionalValue) {
	return r.StartTime, r.EndTime
}

// MarshalJSON implements json.Marshaler
func (r RecurringAvailability) MarshalJSON() ([]byte, error) {
	fields := baseFields(r.Extra, true, r.StartTime, r.EndTime)
	if r.DayOfWeek != nil {
		if math.IsNaN(*r.DayOfWeek) || math.IsInf(*r.DayOfWeek, 0) {
			fields[FieldDayOfWeek] = nil
		} else {
			fields[FieldDayOfWeek] = *r.DayOfWeek
		}
	}
	return marshalFields(fields)
}

// OneOffAvailability is a single-date slot. A nil Date is sent as an explicit
// null so that the backend's required-field validation reports it.
type OneOffAvailability struct {
	Date      *string
	StartTime OptionalValue
	EndTime   OptionalValue
	Extra     map[string]json.RawMessage
}

// Recurring implements AvailabilityPayload
func (OneOffAvailability) Recurring() bool { return false }

// Times implements AvailabilityPayload
func (o OneOffAvailability) Times() (OptionalValue, OptionalValue) {
	return o.StartTime, o.EndTime
}

// MarshalJSON implements json.Marshaler
func (o OneOffAvailability) MarshalJSON() ([]byte, error) {
	fields := baseFields(o.Extra, false, o.StartTime, o.EndTime)
	if o.Date != nil {
		fields[FieldDate] = *o.Date
	} else {
		fields[FieldDate] = nil
	}
	return marshalFields(fields)
}

func baseFields(extra map[string]json.RawMessage, recurring bool, start, end OptionalValue) map[string]any {
	fields := make(map[string]any, len(extra)+4)
	for key, value := range extra {
		fields[key] = value
	}
	fields[FieldIsRecurring] = recurring
	if start.Present {
		fields[FieldStartTime] = start.Value
	}
	if end.Present {
		fields[FieldEndTime] = end.Value
	}
	return fields
}

func marshalFields(fields map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Availability is an availability record as stored by the booking backend.
type Availability struct {
	ID          json.RawMessage `json:"id,omitempty"`
	IsRecurring FlexBool        `json:"is_recurring"`
	DayOfWeek   *FlexInt        `json:"day_of_week,omitempty"`
	Date        *string         `json:"date,omitempty"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
}

// Slots maps an ISO date (YYYY-MM-DD) to the sorted, de-duplicated HH:MM times
// bookable on that day.
type Slots map[string][]string
