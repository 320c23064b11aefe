package clock

import "time"

// Clock returns the current time in the gym's location.
type Clock func() time.Time

func In(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// Day returns t's calendar date at midnight in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b, ignoring time of day and
// location so a date read from the database compares cleanly with "today".
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ca := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	cb := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(cb.Sub(ca).Hours() / 24)
}

// WeekStart returns the most recent Sunday strictly before t's date, so on
// a Sunday the window reaches back a full week.
func WeekStart(t time.Time) time.Time {
	day := Day(t)
	back := int(day.Weekday())
	if back == 0 {
		back = 7
	}
	return day.AddDate(0, 0, -back)
}
