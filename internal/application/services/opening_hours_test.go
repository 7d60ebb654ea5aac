package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/santeconnect/careconnect/internal/application/services"
)

func TestIsOpenNow(t *testing.T) {
	monday := func(h, m int) time.Time { return time.Date(2025, 6, 2, h, m, 0, 0, time.UTC) }
	sunday := time.Date(2025, 6, 8, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		hours string
		now   time.Time
		want  bool
	}{
		{"empty", "", monday(10, 0), false},
		{"always open", "24/7", monday(3, 0), true},
		{"inside range", "Mo-Fr 08:00-18:00", monday(10, 0), true},
		{"bounds are inclusive", "Mo 08:00-18:00", monday(18, 0), true},
		{"after closing", "Mo 08:00-18:00", monday(18, 1), false},
		{"second range of the day", "Mo 08:00-12:00,14:00-18:00", monday(15, 0), true},
		{"lunch break", "Mo 08:00-12:00,14:00-18:00", monday(13, 0), false},
		{"day not listed", "Mo-Sa 08:00-18:00", sunday, false},
		{"day listed in its own segment", "Mo-Sa 08:00-18:00; Su 09:00-12:00", sunday, true},
		{"case insensitive", "mo 08:00-18:00", monday(9, 0), true},
		{"unparseable", "by appointment", monday(9, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.IsOpenNow(tt.hours, tt.now))
		})
	}
}
