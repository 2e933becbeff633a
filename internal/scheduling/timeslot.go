package scheduling

import (
	"time"

	"github.com/pkg/errors"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

// SlotLength is the width of one cell of the planning grid.
const SlotLength = 30 * time.Minute

// GenerateTimeSlotsForWindow discretizes [windowStart, windowEnd] in the
// host's timezone into 30-minute slots bounded by the host's work day
// for each weekday. On the first day, slots that would begin before now
// are excluded and the first usable minute is bucketed up to the next
// half-hour boundary. The last day stops at the window end.
func GenerateTimeSlotsForWindow(windowStart, windowEnd string, hostTZ, hostID string, prefs *model.UserPreferences, now time.Time) ([]model.TimeSlot, error) {
	start, err := wallclock.Parse(windowStart, hostTZ)
	if err != nil {
		return nil, err
	}
	end, err := wallclock.Parse(windowEnd, hostTZ)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, errors.Errorf("window start %s is not before window end %s", windowStart, windowEnd)
	}
	hostNow := now.In(start.Location())

	var slots []model.TimeSlot
	days := wallclock.DaysInWindow(start, end)
	var startTimes, endTimes []model.DayTime
	if prefs != nil {
		startTimes, endTimes = prefs.StartTimes, prefs.EndTimes
	}
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		isoDay := wallclock.ISOWeekday(day)
		sh, sm := dayTimeFor(startTimes, isoDay, defaultWorkStartHour)
		eh, em := dayTimeFor(endTimes, isoDay, defaultWorkEndHour)
		dayStart := wallclock.AtClock(day, sh, sm)
		dayEnd := wallclock.AtClock(day, eh, em)

		cursor := dayStart
		if i == 0 {
			if start.After(cursor) {
				cursor = start
			}
			if hostNow.After(cursor) {
				cursor = hostNow
			}
			cursor = wallclock.CeilToHalfHour(cursor)
		}
		if dayEnd.After(end) {
			dayEnd = end
		}

		for ; !cursor.Add(SlotLength).After(dayEnd); cursor = cursor.Add(SlotLength) {
			slotEnd := cursor.Add(SlotLength)
			slots = append(slots, model.TimeSlot{
				HostID:    hostID,
				DayOfWeek: model.DayOfWeekName(wallclock.ISOWeekday(cursor)),
				StartTime: wallclock.FormatClock(cursor),
				EndTime:   wallclock.FormatClock(slotEnd),
				MonthDay:  wallclock.FormatMonthDay(cursor),
				Date:      wallclock.FormatDate(cursor),
			})
		}
	}
	return slots, nil
}
