package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	caracas, _ := time.LoadLocation("America/Caracas")

	a := time.Date(2026, 10, 19, 23, 30, 0, 0, caracas)
	b := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(a, b))

	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, -30, DaysBetween(a.AddDate(0, 0, 30), a))
	assert.Equal(t, 30, DaysBetween(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), WeekStart(monday))

	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), WeekStart(sunday))

	saturday := time.Date(2026, 10, 24, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), WeekStart(saturday))
}

func TestDay(t *testing.T) {
	ts := time.Date(2026, 10, 19, 15, 4, 5, 6, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), Day(ts))
}
