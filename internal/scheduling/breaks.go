package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

// MinBreakLength is the floor applied to a user's configured break length.
const MinBreakLength = 15 * time.Minute

// maxMeetingLoadHours is the per-day meeting load above which no further
// breaks are generated; the day is already beyond recovery.
const maxMeetingLoadHours = 6.0

// BreakLength returns the user's break length with the floor applied.
func BreakLength(prefs *model.UserPreferences) time.Duration {
	if prefs == nil || time.Duration(prefs.BreakLength)*time.Minute < MinBreakLength {
		return MinBreakLength
	}
	return time.Duration(prefs.BreakLength) * time.Minute
}

// BreakQuotaForDay returns how many breaks the day should carry in
// total: the larger of the configured minimum and the number implied by
// the max work load percentage, floor division. A user who has not set
// a break length gets no breaks, whatever the minimum says.
func BreakQuotaForDay(prefs *model.UserPreferences, workingHours float64) int {
	if prefs == nil || prefs.BreakLength <= 0 {
		return 0
	}
	breakLen := BreakLength(prefs)
	idle := workingHours * 60 * (1 - float64(prefs.MaxWorkLoadPercent)/100)
	byLoad := int(idle / breakLen.Minutes())
	if prefs.MinNumberOfBreaks > byLoad {
		return prefs.MinNumberOfBreaks
	}
	return byLoad
}

// meetingLoadHours sums the span of non-break events, in hours.
func meetingLoadHours(events []model.Event) (float64, error) {
	var total time.Duration
	for _, e := range events {
		if e.IsBreak || e.AllDay {
			continue
		}
		start, err := wallclock.Parse(e.StartDate, e.Timezone)
		if err != nil {
			return 0, err
		}
		end, err := wallclock.Parse(e.EndDate, e.Timezone)
		if err != nil {
			return 0, err
		}
		if end.After(start) {
			total += end.Sub(start)
		}
	}
	return total.Hours(), nil
}

// ShouldGenerateBreaks reports whether break generation applies to a day
// at all: the quota must be positive and the meeting load survivable.
func ShouldGenerateBreaks(prefs *model.UserPreferences, workingHours float64, dayEvents []model.Event) (bool, error) {
	if BreakQuotaForDay(prefs, workingHours) < 1 {
		return false, nil
	}
	load, err := meetingLoadHours(dayEvents)
	if err != nil {
		return false, err
	}
	if load > maxMeetingLoadHours {
		return false, nil
	}
	return true, nil
}

// GenerateBreaksForDay synthesizes break events for one calendar day,
// fitted into the free gaps of the user's work window. Breaks already on
// the calendar count against the quota.
func GenerateBreaksForDay(prefs *model.UserPreferences, day time.Time, dayEvents []model.Event, userID, hostID, calendarID, hostTZ string) ([]model.Event, error) {
	isoDay := wallclock.ISOWeekday(day)
	workingHours := TotalWorkingHours(prefs, isoDay)

	ok, err := ShouldGenerateBreaks(prefs, workingHours, dayEvents)
	if err != nil || !ok {
		return nil, err
	}

	quota := BreakQuotaForDay(prefs, workingHours)
	for _, e := range dayEvents {
		if e.IsBreak {
			quota--
		}
	}
	if quota < 1 {
		return nil, nil
	}

	var startTimes, endTimes []model.DayTime
	if prefs != nil {
		startTimes, endTimes = prefs.StartTimes, prefs.EndTimes
	}
	sh, sm := dayTimeFor(startTimes, isoDay, defaultWorkStartHour)
	eh, em := dayTimeFor(endTimes, isoDay, defaultWorkEndHour)
	workStart := wallclock.AtClock(day, sh, sm)
	workEnd := wallclock.AtClock(day, eh, em)

	busy, err := busyIntervals(dayEvents, workStart.Location())
	if err != nil {
		return nil, err
	}

	breakLen := BreakLength(prefs)
	var out []model.Event
	cursor := workStart
	for quota > 0 && !cursor.Add(breakLen).After(workEnd) {
		if blocked, next := overlaps(busy, cursor, cursor.Add(breakLen)); blocked {
			cursor = next
			continue
		}
		out = append(out, newBreakEvent(cursor, cursor.Add(breakLen), userID, calendarID, hostTZ))
		cursor = cursor.Add(breakLen)
		quota--
	}
	return out, nil
}

type interval struct {
	start, end time.Time
}

func busyIntervals(events []model.Event, loc *time.Location) ([]interval, error) {
	out := make([]interval, 0, len(events))
	for _, e := range events {
		if e.AllDay {
			continue
		}
		start, err := wallclock.Parse(e.StartDate, e.Timezone)
		if err != nil {
			return nil, err
		}
		end, err := wallclock.Parse(e.EndDate, e.Timezone)
		if err != nil {
			return nil, err
		}
		out = append(out, interval{start.In(loc), end.In(loc)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start.Before(out[j].start) })
	return out, nil
}

// overlaps reports whether [start, end) intersects any busy interval and
// returns the earliest cursor position past the blocking interval.
func overlaps(busy []interval, start, end time.Time) (bool, time.Time) {
	for _, iv := range busy {
		if start.Before(iv.end) && iv.start.Before(end) {
			return true, iv.end
		}
	}
	return false, start
}

func newBreakEvent(start, end time.Time, userID, calendarID, hostTZ string) model.Event {
	id := uuid.New().String()
	title := "Break"
	return model.Event{
		ID:         fmt.Sprintf("%s#%s", id, calendarID),
		EventID:    id,
		UserID:     userID,
		CalendarID: calendarID,
		Title:      &title,
		StartDate:  wallclock.Format(start),
		EndDate:    wallclock.Format(end),
		Timezone:   hostTZ,
		Method:     "create",
		Status:     "confirmed",
		Modifiable: true,
		Priority:   1,
		IsBreak:    true,
	}
}
