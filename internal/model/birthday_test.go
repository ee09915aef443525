package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntilNextOccurrence(t *testing.T) {
	// Fixed reference point: noon on 2026-03-15 (not a leap year ahead)
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		month int
		day   int
		want  int
	}{
		{"tomorrow", 3, 16, 1},
		{"in two days", 3, 17, 2},
		{"today counts as passed", 3, 15, 365},
		{"yesterday rolls to next year", 3, 14, 364},
		{"end of year", 12, 31, 291},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilNextOccurrence(tt.month, tt.day, now))
		})
	}
}
