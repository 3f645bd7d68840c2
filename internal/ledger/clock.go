package ledger

import "time"

// DayLayout is the format of DailyLog.Date.
const DayLayout = "2006-01-02"

// Clock supplies the current time for day rollover and meal timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock in the local time zone.
var SystemClock Clock = ClockFunc(time.Now)

// DayOf returns the ledger date key for t in t's location.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}
