package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var hourRangePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})-(\d{1,2}):(\d{2})`)

// IsOpenNow is a basic reading of an OSM opening_hours value. It looks for the
// segment that mentions the current weekday ("Mo", "Tu", ...) and checks whether
// now falls inside one of its H:MM-H:MM ranges, bounds included. Days that are only
// covered by a range such as "Mo-Fr" are not expanded.
func IsOpenNow(openingHours string, now time.Time) bool {
	value := strings.TrimSpace(openingHours)
	if value == "" {
		return false
	}
	if value == "24/7" {
		return true
	}

	day := strings.ToLower(now.Weekday().String()[:2])
	dayPattern, err := regexp.Compile("(?i)" + day + "[^;]*")
	if err != nil {
		return false
	}
	segment := dayPattern.FindString(value)
	if segment == "" {
		return false
	}

	current := now.Hour()*60 + now.Minute()
	for _, m := range hourRangePattern.FindAllStringSubmatch(segment, -1) {
		start := minutesOf(m[1], m[2])
		end := minutesOf(m[3], m[4])
		if current >= start && current <= end {
			return true
		}
	}
	return false
}

func minutesOf(hours, minutes string) int {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	return h*60 + m
}
