package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/santeconnect/careconnect/internal/domain/entities"
	apperrors "github.com/santeconnect/careconnect/pkg/errors"
)

// User-facing validation messages
const (
	MsgDayOfWeekRequired     = "Please select a day of the week"
	MsgDayOfWeekInvalid      = "The selected day of the week is invalid"
	MsgRecurringWithDate     = "A recurring availability cannot have a specific date"
	MsgDateRequired          = "Please select a date"
	MsgOneOffWithDayOfWeek   = "A one-off availability cannot have a day of the week"
	MsgStartTimeNotBeforeEnd = "The start time must be earlier than the end time"
)

// ValidateAvailabilityForm runs the guard conditions that must hold before a
// submission is normalized. It returns a VALIDATION error with a message meant
// for the end user.
func ValidateAvailabilityForm(in entities.AvailabilityInput) error {
	if entities.Truthy(in.IsRecurring) {
		if !entities.Truthy(in.DayOfWeek) {
			return fieldError(entities.FieldDayOfWeek, MsgDayOfWeekRequired)
		}
		day := entities.ToNumber(in.DayOfWeek)
		if math.IsNaN(day) || day != math.Trunc(day) || day < 1 || day > 7 {
			return fieldError(entities.FieldDayOfWeek, MsgDayOfWeekInvalid)
		}
		if entities.Truthy(in.Date) {
			return fieldError(entities.FieldDate, MsgRecurringWithDate)
		}
	} else {
		if !entities.Truthy(in.Date) {
			return fieldError(entities.FieldDate, MsgDateRequired)
		}
		if entities.Truthy(in.DayOfWeek) {
			return fieldError(entities.FieldDayOfWeek, MsgOneOffWithDayOfWeek)
		}
	}

	start, startOK := in.StartTime.(string)
	end, endOK := in.EndTime.(string)
	if startOK && endOK && start != "" && end != "" {
		startSec, ok1 := secondsOfDay(start)
		endSec, ok2 := secondsOfDay(end)
		if ok1 && ok2 && startSec >= endSec {
			return fieldError(entities.FieldStartTime, MsgStartTimeNotBeforeEnd)
		}
	}

	return nil
}

// secondsOfDay parses HH:MM or HH:MM:SS. Missing components count as zero.
func secondsOfDay(value string) (int, bool) {
	if len(value) == 5 {
		value += ":00"
	}
	parts := strings.Split(value, ":")
	multipliers := []int{3600, 60, 1}
	total := 0
	for i, mult := range multipliers {
		if i >= len(parts) || parts[i] == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0, false
		}
		total += n * mult
	}
	return total, true
}

func fieldError(field, message string) error {
	return apperrors.NewFieldValidationError(message, map[string][]string{field: {message}})
}
