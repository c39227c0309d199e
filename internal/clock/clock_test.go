package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysIn(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestDayBoundaries(t *testing.T) {
	at := time.Date(2024, 3, 15, 18, 42, 7, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), StartOfDay(at))
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999_000_000, time.UTC), EndOfDay(at))
	assert.True(t, SameDay(at, StartOfDay(at)))
	assert.False(t, SameDay(at, at.AddDate(0, 0, 1)))
}

func TestFixed(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var c Clock = Fixed(at)
	assert.Equal(t, at, c.Now())
}

func TestDateAcrossZones(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	d := time.Date(2024, 3, 20, 0, 0, 0, 0, ist)

	got := Date(d, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), got)
}
