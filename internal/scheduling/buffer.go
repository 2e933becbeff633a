package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

// CreateBufferTimeForNewMeetingEvent synthesizes the before/after buffer
// events for a newly created meeting event and links them through
// preEventId/postEventId/forEventId. The returned slice holds only the
// buffers that were requested; the event is updated in place.
func CreateBufferTimeForNewMeetingEvent(e *model.Event, buffer model.BufferTimes) ([]model.Event, error) {
	if buffer.BeforeEvent <= 0 && buffer.AfterEvent <= 0 {
		return nil, nil
	}
	start, err := wallclock.Parse(e.StartDate, e.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "buffer for event %s", e.ID)
	}
	end, err := wallclock.Parse(e.EndDate, e.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "buffer for event %s", e.ID)
	}

	var out []model.Event
	if buffer.BeforeEvent > 0 {
		pre := newBufferEvent(e, start.Add(-minutes(buffer.BeforeEvent)), start)
		pre.IsPreEvent = true
		pre.PostEventID = &e.ID
		e.PreEventID = &pre.ID
		out = append(out, pre)
	}
	if buffer.AfterEvent > 0 {
		post := newBufferEvent(e, end, end.Add(minutes(buffer.AfterEvent)))
		post.IsPostEvent = true
		post.PreEventID = &e.ID
		e.PostEventID = &post.ID
		out = append(out, post)
	}
	e.TimeBlocking = &model.BufferTimes{BeforeEvent: buffer.BeforeEvent, AfterEvent: buffer.AfterEvent}
	return out, nil
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }

func newBufferEvent(forEvent *model.Event, start, end time.Time) model.Event {
	id := uuid.New().String()
	title := "Buffer time"
	return model.Event{
		ID:         fmt.Sprintf("%s#%s", id, forEvent.CalendarID),
		EventID:    id,
		UserID:     forEvent.UserID,
		CalendarID: forEvent.CalendarID,
		Title:      &title,
		StartDate:  wallclock.Format(start),
		EndDate:    wallclock.Format(end),
		Timezone:   forEvent.Timezone,
		Method:     "create",
		Status:     "confirmed",
		Modifiable: true,
		ForEventID: &forEvent.ID,
	}
}

// CreateRemindersFromMinutesAndEvent synthesizes reminder records for a
// newly materialized meeting event. With useDefault set the minutes list
// is ignored and the user's defaults apply downstream.
func CreateRemindersFromMinutesAndEvent(eventID, userID, timezone string, minutesList []int, useDefault bool) []model.Reminder {
	if useDefault {
		return []model.Reminder{{
			ID:         uuid.New().String(),
			UserID:     userID,
			EventID:    eventID,
			Timezone:   timezone,
			UseDefault: true,
		}}
	}
	out := make([]model.Reminder, 0, len(minutesList))
	for _, m := range minutesList {
		out = append(out, model.Reminder{
			ID:       uuid.New().String(),
			UserID:   userID,
			EventID:  eventID,
			Timezone: timezone,
			Minutes:  m,
		})
	}
	return out
}
