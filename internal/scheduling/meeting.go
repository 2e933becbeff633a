package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

// RangePicker selects an index in [0, n). Production wiring uses a
// uniform random picker; tests inject a deterministic one.
type RangePicker func(n int) int

// ConvertMeetingAssistEventToEvent lifts an external attendee's busy
// block into the common event shape so the external branch can reuse the
// part pipeline.
func ConvertMeetingAssistEventToEvent(mae model.MeetingAssistEvent, userID string) model.Event {
	return model.Event{
		ID:         fmt.Sprintf("%s#%s", mae.EventID, mae.CalendarID),
		EventID:    mae.EventID,
		UserID:     userID,
		CalendarID: mae.CalendarID,
		Title:      mae.Summary,
		StartDate:  mae.StartDate,
		EndDate:    mae.EndDate,
		Timezone:   mae.Timezone,
		AllDay:     mae.AllDay,
		Method:     "update",
		Status:     "confirmed",
		Modifiable: false,
	}
}

// GenerateNewMeetingEventForAttendee seeds a placeholder event for a
// pending meeting. When preferred time ranges exist one is picked and
// anchored by ISO weekday inside the window, shifting plus or minus a
// week when the anchor lands outside it. Without ranges the placeholder
// starts at the first half-hour boundary of a picked window day.
func GenerateNewMeetingEventForAttendee(
	assist *model.MeetingAssist,
	attendee *model.MeetingAssistAttendee,
	hostID, calendarID string,
	ranges []model.MeetingAssistPreferredTimeRange,
	pick RangePicker,
) (model.Event, error) {
	tz := assist.Timezone
	if attendee.ExternalAttendee && attendee.Timezone != "" {
		tz = attendee.Timezone
	}

	windowStart, err := wallclock.Parse(assist.WindowStartDate, assist.Timezone)
	if err != nil {
		return model.Event{}, errors.Wrapf(err, "meeting %s", assist.ID)
	}
	windowEnd, err := wallclock.Parse(assist.WindowEndDate, assist.Timezone)
	if err != nil {
		return model.Event{}, errors.Wrapf(err, "meeting %s", assist.ID)
	}

	var start time.Time
	if len(ranges) > 0 {
		r := ranges[pick(len(ranges))]
		start, err = anchorPreferredRange(r, windowStart, windowEnd)
		if err != nil {
			return model.Event{}, errors.Wrapf(err, "meeting %s", assist.ID)
		}
	} else {
		days := wallclock.DaysInWindow(windowStart, windowEnd)
		day := windowStart.AddDate(0, 0, pick(days))
		start = wallclock.CeilToHalfHour(day)
	}

	end := start.Add(time.Duration(assist.Duration) * time.Minute)
	if end.After(windowEnd) {
		end = windowEnd
	}

	id := uuid.New().String()
	return model.Event{
		ID:                fmt.Sprintf("%s#%s", id, calendarID),
		EventID:           id,
		UserID:            attendee.UserID,
		CalendarID:        calendarID,
		Title:             assist.Summary,
		Notes:             assist.Notes,
		StartDate:         wallclock.Format(start),
		EndDate:           wallclock.Format(end),
		Timezone:          tz,
		Method:            "create",
		Status:            "confirmed",
		Modifiable:        true,
		Priority:          assist.Priority,
		IsMeeting:         !attendee.ExternalAttendee,
		IsExternalMeeting: attendee.ExternalAttendee,
		MeetingID:         &assist.ID,
	}, nil
}

// anchorPreferredRange places a preferred (dayOfWeek, startTime) inside
// the window: set the ISO weekday on the window's first day, then clamp
// by shifting a week forward or back when the result falls outside.
func anchorPreferredRange(r model.MeetingAssistPreferredTimeRange, windowStart, windowEnd time.Time) (time.Time, error) {
	h, m, _, err := parseClock(r.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	anchor := windowStart
	if r.DayOfWeek != nil && *r.DayOfWeek >= 1 && *r.DayOfWeek <= 7 {
		anchor = wallclock.WithISOWeekday(windowStart, *r.DayOfWeek)
	}
	start := wallclock.AtClock(anchor, h, m)
	if start.Before(windowStart) {
		start = start.AddDate(0, 0, 7)
	}
	if start.After(windowEnd) {
		start = start.AddDate(0, 0, -7)
	}
	if start.Before(windowStart) || start.After(windowEnd) {
		start = wallclock.CeilToHalfHour(windowStart)
	}
	return start, nil
}
