// Package wallclock handles the local wall-time formats used on the
// gateway and solver wire: timestamps without offsets that are always
// interpreted in a named IANA zone.
package wallclock

import (
	"time"

	"github.com/pkg/errors"
)

const (
	// LayoutTimestamp is the wire format for local date-times.
	LayoutTimestamp = "2006-01-02T15:04:05"
	// LayoutDate is the wire format for calendar dates.
	LayoutDate = "2006-01-02"
	// LayoutClock is the wire format for times of day.
	LayoutClock = "15:04:05"
	// LayoutMonthDay is the wire format for recurring month-days.
	LayoutMonthDay = "--01-02"
)

// Location resolves an IANA zone name.
func Location(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown timezone %q", tz)
	}
	return loc, nil
}

// Parse interprets a local timestamp string in the given zone.
func Parse(ts, tz string) (time.Time, error) {
	loc, err := Location(tz)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(LayoutTimestamp, ts, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse timestamp %q", ts)
	}
	return t, nil
}

// ParseDate interprets a calendar date string as midnight in the given zone.
func ParseDate(date, tz string) (time.Time, error) {
	loc, err := Location(tz)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(LayoutDate, date, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse date %q", date)
	}
	return t, nil
}

// InZone converts an instant into the named zone.
func InZone(t time.Time, tz string) (time.Time, error) {
	loc, err := Location(tz)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// Format renders a local timestamp for the wire.
func Format(t time.Time) string { return t.Format(LayoutTimestamp) }

// FormatDate renders a calendar date for the wire.
func FormatDate(t time.Time) string { return t.Format(LayoutDate) }

// FormatClock renders a time of day for the wire.
func FormatClock(t time.Time) string { return t.Format(LayoutClock) }

// FormatMonthDay renders a recurring month-day for the wire.
func FormatMonthDay(t time.Time) string { return t.Format(LayoutMonthDay) }

// ISOWeekday returns the ISO-8601 day of week, Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WithISOWeekday moves t to the given ISO weekday within its own week
// (Monday-start), keeping the time of day.
func WithISOWeekday(t time.Time, isoDay int) time.Time {
	return t.AddDate(0, 0, isoDay-ISOWeekday(t))
}

// CeilToQuarter rounds t up to the next 0/15/30/45 minute boundary.
// Times already on a boundary are returned unchanged (seconds dropped).
func CeilToQuarter(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	if m := t.Minute() % 15; m != 0 {
		t = t.Add(time.Duration(15-m) * time.Minute)
	}
	return t
}

// CeilToHalfHour rounds t up to the next 0/30 minute boundary.
func CeilToHalfHour(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	if m := t.Minute() % 30; m != 0 {
		t = t.Add(time.Duration(30-m) * time.Minute)
	}
	return t
}

// DaysInWindow returns the number of calendar days the window covers,
// inclusive of both endpoint days.
func DaysInWindow(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	return int(e.Sub(s).Hours()/24) + 1
}

// AtClock returns the instant on t's calendar day with the given time of day.
func AtClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
