package services_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/santeconnect/careconnect/internal/application/services"
	"github.com/santeconnect/careconnect/internal/domain/entities"
)

func dayPtr(d int) *entities.FlexInt {
	v := entities.FlexInt(d)
	return &v
}

func strPtr(s string) *string {
	return &s
}

func TestBuildSlots(t *testing.T) {
	// Wednesday
	today := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

	t.Run("projects recurring availabilities onto the horizon", func(t *testing.T) {
		slots := services.BuildSlots([]entities.Availability{
			{IsRecurring: true, DayOfWeek: dayPtr(5), StartTime: "9:00:00", EndTime: "12:30:00"},
			{IsRecurring: true, DayOfWeek: dayPtr(7), StartTime: "08:00", EndTime: "10:00"},
		}, today, 7)

		assert.Equal(t, entities.Slots{
			"2025-06-06": {"09:00", "12:30"},
			"2025-06-08": {"08:00", "10:00"},
		}, slots)
	})

	t.Run("today counts as the first day", func(t *testing.T) {
		slots := services.BuildSlots([]entities.Availability{
			{IsRecurring: true, DayOfWeek: dayPtr(3), StartTime: "14:00:00", EndTime: "15:00:00"},
		}, today, 7)

		assert.Equal(t, []string{"14:00", "15:00"}, slots["2025-06-04"])
		assert.Len(t, slots, 1)
	})

	t.Run("one-off availabilities use their own date", func(t *testing.T) {
		slots := services.BuildSlots([]entities.Availability{
			{Date: strPtr("2025-07-14T00:00:00Z"), StartTime: "16:00:00", EndTime: "17:00:00"},
		}, today, 7)

		assert.Equal(t, entities.Slots{"2025-07-14": {"16:00", "17:00"}}, slots)
	})

	t.Run("merges, de-duplicates and sorts times", func(t *testing.T) {
		slots := services.BuildSlots([]entities.Availability{
			{Date: strPtr("2025-06-10"), StartTime: "14:00:00", EndTime: "15:00:00"},
			{Date: strPtr("2025-06-10"), StartTime: "08:00:00", EndTime: "14:00:00"},
			{IsRecurring: true, DayOfWeek: dayPtr(2), StartTime: "08:00:00", EndTime: "09:00:00"},
		}, today, 7)

		assert.Equal(t, []string{"08:00", "09:00", "14:00", "15:00"}, slots["2025-06-10"])
	})

	t.Run("recurring without a day falls back to its date", func(t *testing.T) {
		slots := services.BuildSlots([]entities.Availability{
			{IsRecurring: true, Date: strPtr("2025-06-20"), StartTime: "10:00:00"},
			{IsRecurring: true},
		}, today, 7)

		assert.Equal(t, entities.Slots{"2025-06-20": {"10:00"}}, slots)
	})
}

func TestDecodeAvailabilities(t *testing.T) {
	list, skipped := services.DecodeAvailabilities([]json.RawMessage{
		json.RawMessage(`{"id":1,"is_recurring":"1","day_of_week":"3","start_time":"08:00:00","end_time":"10:00:00"}`),
		json.RawMessage(`{"id":2,"is_recurring":true,"day_of_week":"wednesday"}`),
		json.RawMessage(`"not an object"`),
		json.RawMessage(`{"id":4,"is_recurring":0,"date":"2025-06-11","start_time":"09:00:00","end_time":"09:30:00"}`),
	})

	assert.Equal(t, 2, skipped)
	if assert.Len(t, list, 2) {
		assert.Equal(t, entities.FlexInt(3), *list[0].DayOfWeek)
		assert.Equal(t, "2025-06-11", *list[1].Date)
	}
}
