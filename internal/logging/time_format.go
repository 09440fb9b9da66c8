package logging

import "time"

const (
	consoleTimestampLayout = "2006-01-02 15:04:05"
	reelDateLayout         = "2006-01-02"
)

// formatTimestamp renders a console timestamp in loc, the zone reel dates are
// computed in, so log lines and reel dates agree near midnight.
func formatTimestamp(ts time.Time, loc *time.Location) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(zoneOrLocal(loc)).Format(consoleTimestampLayout)
}

// isCalendarDate reports whether ts carries no time of day, as the reel dates
// the pipeline passes around do.
func isCalendarDate(ts time.Time) bool {
	h, m, s := ts.Clock()
	return h == 0 && m == 0 && s == 0 && ts.Nanosecond() == 0
}

func zoneOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
