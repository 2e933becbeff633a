// Package scheduling holds the pure computational core of the pipeline:
// availability generation, event-part decomposition, buffer splicing and
// planner formatting. Nothing here performs I/O.
package scheduling

import (
	"time"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

// Fallback working hours when a user has no stored preference for a day.
const (
	defaultWorkStartHour = 8
	defaultWorkEndHour   = 18
)

func dayTimeFor(times []model.DayTime, isoDay int, fallbackHour int) (hour, minute int) {
	for _, dt := range times {
		if dt.Day == isoDay {
			return dt.Hour, dt.Minutes
		}
	}
	return fallbackHour, 0
}

// GenerateWorkTimesForUser produces one WorkTime per ISO weekday with the
// user's start and end of day converted into the host's timezone. The
// anchor fixes the week used for the conversion so DST transitions
// resolve the same way they will during planning.
func GenerateWorkTimesForUser(prefs *model.UserPreferences, userID, hostID, userTZ, hostTZ string, anchor time.Time) ([]model.WorkTime, error) {
	userLoc, err := wallclock.Location(userTZ)
	if err != nil {
		return nil, err
	}
	hostLoc, err := wallclock.Location(hostTZ)
	if err != nil {
		return nil, err
	}

	anchorUser := anchor.In(userLoc)
	out := make([]model.WorkTime, 0, 7)
	for day := 1; day <= 7; day++ {
		var startTimes, endTimes []model.DayTime
		if prefs != nil {
			startTimes, endTimes = prefs.StartTimes, prefs.EndTimes
		}
		sh, sm := dayTimeFor(startTimes, day, defaultWorkStartHour)
		eh, em := dayTimeFor(endTimes, day, defaultWorkEndHour)

		dayAnchor := wallclock.WithISOWeekday(anchorUser, day)
		start := wallclock.AtClock(dayAnchor, sh, sm).In(hostLoc)
		end := wallclock.AtClock(dayAnchor, eh, em).In(hostLoc)

		out = append(out, model.WorkTime{
			UserID:    userID,
			HostID:    hostID,
			DayOfWeek: model.DayOfWeekName(day),
			StartTime: wallclock.FormatClock(start),
			EndTime:   wallclock.FormatClock(end),
		})
	}
	return out, nil
}

// GenerateWorkTimesForExternalAttendee derives work times from the busy
// blocks on the attendee's calendar: per weekday, the earliest start and
// latest end observed, converted to host time. Weekdays without events
// fall back to the default window.
func GenerateWorkTimesForExternalAttendee(events []model.MeetingAssistEvent, userID, hostID, hostTZ string, anchor time.Time) ([]model.WorkTime, error) {
	hostLoc, err := wallclock.Location(hostTZ)
	if err != nil {
		return nil, err
	}

	type span struct {
		start, end time.Time
		seen       bool
	}
	spans := make(map[int]*span, 7)
	for day := 1; day <= 7; day++ {
		spans[day] = &span{}
	}

	for _, ev := range events {
		start, err := wallclock.Parse(ev.StartDate, ev.Timezone)
		if err != nil {
			return nil, err
		}
		end, err := wallclock.Parse(ev.EndDate, ev.Timezone)
		if err != nil {
			return nil, err
		}
		hs, he := start.In(hostLoc), end.In(hostLoc)
		s := spans[wallclock.ISOWeekday(hs)]
		if !s.seen || clockBefore(hs, s.start) {
			s.start = hs
		}
		if !s.seen || clockBefore(s.end, he) {
			s.end = he
		}
		s.seen = true
	}

	anchorHost := anchor.In(hostLoc)
	out := make([]model.WorkTime, 0, 7)
	for day := 1; day <= 7; day++ {
		s := spans[day]
		startClock := wallclock.FormatClock(wallclock.AtClock(anchorHost, defaultWorkStartHour, 0))
		endClock := wallclock.FormatClock(wallclock.AtClock(anchorHost, defaultWorkEndHour, 0))
		if s.seen {
			startClock = wallclock.FormatClock(s.start)
			endClock = wallclock.FormatClock(s.end)
		}
		out = append(out, model.WorkTime{
			UserID:    userID,
			HostID:    hostID,
			DayOfWeek: model.DayOfWeekName(day),
			StartTime: startClock,
			EndTime:   endClock,
		})
	}
	return out, nil
}

// clockBefore compares two instants by time of day only.
func clockBefore(a, b time.Time) bool {
	ah, am, as := a.Clock()
	bh, bm, bs := b.Clock()
	if ah != bh {
		return ah < bh
	}
	if am != bm {
		return am < bm
	}
	return as < bs
}

// TotalWorkingHours returns the length of the user's work day for the
// given ISO weekday, in hours.
func TotalWorkingHours(prefs *model.UserPreferences, isoDay int) float64 {
	var startTimes, endTimes []model.DayTime
	if prefs != nil {
		startTimes, endTimes = prefs.StartTimes, prefs.EndTimes
	}
	sh, sm := dayTimeFor(startTimes, isoDay, defaultWorkStartHour)
	eh, em := dayTimeFor(endTimes, isoDay, defaultWorkEndHour)
	minutes := (eh*60 + em) - (sh*60 + sm)
	if minutes < 0 {
		minutes = 0
	}
	return float64(minutes) / 60
}
