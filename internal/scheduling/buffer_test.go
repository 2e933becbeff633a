package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltaplan/schedule-assist/internal/model"
)

func TestCreateBufferTimeForNewMeetingEvent(t *testing.T) {
	ev := testEvent("meet", "2026-01-05T09:00:00", "2026-01-05T10:00:00")

	buffers, err := CreateBufferTimeForNewMeetingEvent(&ev, model.BufferTimes{BeforeEvent: 15, AfterEvent: 30})
	require.NoError(t, err)
	require.Len(t, buffers, 2)

	pre, post := buffers[0], buffers[1]
	assert.True(t, pre.IsPreEvent)
	assert.Equal(t, "2026-01-05T08:45:00", pre.StartDate)
	assert.Equal(t, "2026-01-05T09:00:00", pre.EndDate)
	require.NotNil(t, pre.ForEventID)
	assert.Equal(t, ev.ID, *pre.ForEventID)

	assert.True(t, post.IsPostEvent)
	assert.Equal(t, "2026-01-05T10:00:00", post.StartDate)
	assert.Equal(t, "2026-01-05T10:30:00", post.EndDate)

	require.NotNil(t, ev.PreEventID)
	require.NotNil(t, ev.PostEventID)
	assert.Equal(t, pre.ID, *ev.PreEventID)
	assert.Equal(t, post.ID, *ev.PostEventID)
	require.NotNil(t, ev.TimeBlocking)
	assert.Equal(t, 15, ev.TimeBlocking.BeforeEvent)
	assert.Equal(t, 30, ev.TimeBlocking.AfterEvent)
}

func TestCreateBufferTimeForNewMeetingEvent_NoneRequested(t *testing.T) {
	ev := testEvent("meet", "2026-01-05T09:00:00", "2026-01-05T10:00:00")
	buffers, err := CreateBufferTimeForNewMeetingEvent(&ev, model.BufferTimes{})
	require.NoError(t, err)
	assert.Nil(t, buffers)
	assert.Nil(t, ev.PreEventID)
}

func TestCreateRemindersFromMinutesAndEvent(t *testing.T) {
	reminders := CreateRemindersFromMinutesAndEvent("e1#cal1", "u1", "UTC", []int{10, 30}, false)
	require.Len(t, reminders, 2)
	assert.Equal(t, 10, reminders[0].Minutes)
	assert.Equal(t, 30, reminders[1].Minutes)
	assert.False(t, reminders[0].UseDefault)

	defaults := CreateRemindersFromMinutesAndEvent("e1#cal1", "u1", "UTC", []int{10}, true)
	require.Len(t, defaults, 1)
	assert.True(t, defaults[0].UseDefault)
	assert.Zero(t, defaults[0].Minutes)
}
