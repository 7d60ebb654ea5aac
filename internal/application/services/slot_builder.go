package services

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/santeconnect/careconnect/internal/domain/entities"
)

// DefaultSlotHorizonDays is how far ahead recurring availabilities are expanded
const DefaultSlotHorizonDays = 7

// DecodeAvailabilities types raw backend records one by one. Records that do not
// decode are skipped and counted, so one bad entry does not hide the others.
func DecodeAvailabilities(records []json.RawMessage) (list []entities.Availability, skipped int) {
	list = make([]entities.Availability, 0, len(records))
	for _, record := range records {
		var a entities.Availability
		if err := json.Unmarshal(record, &a); err != nil {
			skipped++
			continue
		}
		list = append(list, a)
	}
	return list, skipped
}

// BuildSlots expands raw availabilities into per-date HH:MM times for the patient
// calendar. Recurring entries are projected onto the next days days starting at
// today (ISO weekday, Monday=1); one-off entries land on their own date.
func BuildSlots(availabilities []entities.Availability, today time.Time, days int) entities.Slots {
	slots := entities.Slots{}

	for _, a := range availabilities {
		start := toHourMinute(a.StartTime)
		end := toHourMinute(a.EndTime)

		switch {
		case bool(a.IsRecurring) && a.DayOfWeek != nil:
			for i := 0; i < days; i++ {
				d := today.AddDate(0, 0, i)
				if isoWeekday(d) != int(*a.DayOfWeek) {
					continue
				}
				addSlotTimes(slots, d.Format("2006-01-02"), start, end)
			}
		case a.Date != nil && *a.Date != "":
			date := *a.Date
			if len(date) > 10 {
				date = date[:10]
			}
			addSlotTimes(slots, date, start, end)
		}
	}

	for date, times := range slots {
		slots[date] = sortHourMinutes(uniqueStrings(times))
	}
	return slots
}

func addSlotTimes(slots entities.Slots, date, start, end string) {
	times := slots[date]
	if times == nil {
		times = []string{}
	}
	if start != "" {
		times = append(times, start)
	}
	if end != "" {
		times = append(times, end)
	}
	slots[date] = times
}

func isoWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// toHourMinute reduces "9:5:00" style values to zero-padded "09:05"
func toHourMinute(value string) string {
	if value == "" {
		return ""
	}
	parts := strings.Split(value, ":")
	hh := padTwo(parts[0])
	mm := "00"
	if len(parts) > 1 {
		mm = padTwo(parts[1])
	}
	return hh + ":" + mm
}

func padTwo(s string) string {
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortHourMinutes(times []string) []string {
	key := func(t string) int {
		parts := strings.SplitN(t, ":", 2)
		h, _ := strconv.Atoi(parts[0])
		m := 0
		if len(parts) > 1 {
			m, _ = strconv.Atoi(parts[1])
		}
		return h*100 + m
	}
	sort.SliceStable(times, func(i, j int) bool { return key(times[i]) < key(times[j]) })
	return times
}
