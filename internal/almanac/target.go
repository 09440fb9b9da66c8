package almanac

import (
	"fmt"
	"time"
)

// TargetTime returns now in loc shifted by offsetDays. A zero offset means
// today; the default configuration asks for tomorrow.
func TargetTime(now time.Time, loc *time.Location, offsetDays int) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).AddDate(0, 0, offsetDays)
}

// ParseDate interprets a YYYY-MM-DD date in loc, keeping the clock time of
// now so the API reports the periods in effect at that moment of the day.
func ParseDate(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	clock := now.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc), nil
}
