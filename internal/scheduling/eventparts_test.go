package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltaplan/schedule-assist/internal/model"
)

func testEvent(id string, start, end string) model.Event {
	return model.Event{
		ID:         id + "#cal1",
		EventID:    id,
		UserID:     "u1",
		CalendarID: "cal1",
		StartDate:  start,
		EndDate:    end,
		Timezone:   "UTC",
		Modifiable: true,
	}
}

func TestGenerateEventParts_SixtyMinutes(t *testing.T) {
	parts, err := GenerateEventParts(testEvent("e1", "2026-01-05T09:00:00", "2026-01-05T10:00:00"), "h1")
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, 1, parts[0].Part)
	assert.Equal(t, 2, parts[1].Part)
	for _, p := range parts {
		assert.Equal(t, 2, p.LastPart)
		assert.Equal(t, "e1#cal1", p.GroupID)
		assert.Equal(t, "e1#cal1", p.EventID)
		assert.Equal(t, "h1", p.HostID)
	}
}

func TestGenerateEventParts_RemainderPart(t *testing.T) {
	// 61 minutes: two whole parts plus a remainder.
	parts, err := GenerateEventParts(testEvent("e1", "2026-01-05T09:00:00", "2026-01-05T10:01:00"), "h1")
	require.NoError(t, err)
	assert.Len(t, parts, 3)
	assert.Equal(t, 3, parts[2].LastPart)
}

func TestGenerateEventParts_ShortEvent(t *testing.T) {
	parts, err := GenerateEventParts(testEvent("e1", "2026-01-05T09:00:00", "2026-01-05T09:10:00"), "h1")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, 1, parts[0].Part)
	assert.Equal(t, 1, parts[0].LastPart)
}

func TestGenerateEventParts_ZeroDurationDropped(t *testing.T) {
	parts, err := GenerateEventParts(testEvent("e1", "2026-01-05T10:00:00", "2026-01-05T10:00:00"), "h1")
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestGenerateEventPartsForEvents_SkipsZeroDuration(t *testing.T) {
	events := []model.Event{
		testEvent("e1", "2026-01-05T09:00:00", "2026-01-05T10:00:00"),
		testEvent("z1", "2026-01-05T10:00:00", "2026-01-05T10:00:00"),
	}
	parts, err := GenerateEventPartsForEvents(events, "h1")
	require.NoError(t, err)
	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.Equal(t, "e1#cal1", p.EventID)
	}
}

func TestGenerateEventParts_CarriesBreakAsGap(t *testing.T) {
	ev := testEvent("b1", "2026-01-05T12:00:00", "2026-01-05T12:30:00")
	ev.IsBreak = true
	parts, err := GenerateEventParts(ev, "h1")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.True(t, parts[0].Gap)
}

func TestSplicePreBufferParts(t *testing.T) {
	main := testEvent("main", "2026-01-05T09:00:00", "2026-01-05T10:00:00")
	pre := testEvent("pre", "2026-01-05T08:30:00", "2026-01-05T09:00:00")
	pre.IsPreEvent = true
	pre.ForEventID = &main.ID
	main.PreEventID = &pre.ID

	parts, err := GenerateEventPartsForEvents([]model.Event{pre, main}, "h1")
	require.NoError(t, err)
	parts = SplicePreBufferParts(parts)

	gid := parts[0].GroupID
	assert.NotEqual(t, main.ID, gid)
	assert.NotEqual(t, pre.ID, gid)

	// Buffer part first, main parts renumbered after it.
	assert.Equal(t, 1, parts[0].Part) // pre
	assert.Equal(t, 2, parts[1].Part) // main part 1
	assert.Equal(t, 3, parts[2].Part) // main part 2
	for _, p := range parts {
		assert.Equal(t, gid, p.GroupID)
		assert.Equal(t, 3, p.LastPart)
	}
}

func TestSplicePostBufferParts_FreshGroup(t *testing.T) {
	main := testEvent("main", "2026-01-05T09:00:00", "2026-01-05T10:00:00")
	post := testEvent("post", "2026-01-05T10:00:00", "2026-01-05T10:30:00")
	post.IsPostEvent = true
	post.ForEventID = &main.ID
	main.PostEventID = &post.ID

	parts, err := GenerateEventPartsForEvents([]model.Event{main, post}, "h1")
	require.NoError(t, err)
	parts = SplicePostBufferParts(parts)

	gid := parts[0].GroupID
	assert.NotEqual(t, main.ID, gid)
	assert.Equal(t, []int{1, 2, 3}, []int{parts[0].Part, parts[1].Part, parts[2].Part})
	for _, p := range parts {
		assert.Equal(t, gid, p.GroupID)
		assert.Equal(t, 3, p.LastPart)
	}
}

func TestSplicePostBufferParts_ExtendsPreBufferedGroup(t *testing.T) {
	main := testEvent("main", "2026-01-05T09:00:00", "2026-01-05T10:00:00")
	pre := testEvent("pre", "2026-01-05T08:30:00", "2026-01-05T09:00:00")
	post := testEvent("post", "2026-01-05T10:00:00", "2026-01-05T10:30:00")
	pre.IsPreEvent = true
	pre.ForEventID = &main.ID
	post.IsPostEvent = true
	post.ForEventID = &main.ID
	main.PreEventID = &pre.ID
	main.PostEventID = &post.ID

	parts, err := GenerateEventPartsForEvents([]model.Event{pre, main, post}, "h1")
	require.NoError(t, err)
	parts = SplicePreBufferParts(parts)
	gidAfterPre := parts[0].GroupID
	parts = SplicePostBufferParts(parts)

	// The post splice reuses the group created by the pre splice and
	// only extends the numbering.
	for _, p := range parts {
		assert.Equal(t, gidAfterPre, p.GroupID)
		assert.Equal(t, 4, p.LastPart)
	}
	postPart := parts[len(parts)-1]
	assert.True(t, postPart.IsPostEvent)
	assert.Equal(t, 4, postPart.Part)
}

func TestSetPreferredTimeForUnmodifiableEvent_UsesEventZone(t *testing.T) {
	part := model.EventPartPlanner{
		EventPart: model.EventPart{
			EventID:    "e1#cal1",
			StartDate:  "2026-01-05T09:00:00", // Monday 09:00 in New York
			Modifiable: false,
		},
	}
	require.NoError(t, SetPreferredTimeForUnmodifiableEvent(&part, "America/New_York"))
	require.NotNil(t, part.PreferredDayOfWeek)
	require.NotNil(t, part.PreferredTime)
	assert.Equal(t, 1, *part.PreferredDayOfWeek)
	assert.Equal(t, "09:00:00", *part.PreferredTime)
}

func TestSetPreferredTimeForUnmodifiableEvent_LeavesModifiable(t *testing.T) {
	part := model.EventPartPlanner{
		EventPart: model.EventPart{Modifiable: true, StartDate: "2026-01-05T09:00:00"},
	}
	require.NoError(t, SetPreferredTimeForUnmodifiableEvent(&part, "UTC"))
	assert.Nil(t, part.PreferredDayOfWeek)
	assert.Nil(t, part.PreferredTime)
}

func TestTagPartsForDailyOrWeeklyTask(t *testing.T) {
	recurringID := "orig#cal1"
	instance := testEvent("inst", "2026-01-05T09:00:00", "2026-01-05T09:30:00")
	instance.RecurringEventID = &recurringID

	parts, err := GenerateEventParts(instance, "h1")
	require.NoError(t, err)

	TagPartsForDailyOrWeeklyTask(parts, map[string]model.Event{
		recurringID: {ID: recurringID, DailyTaskList: true, WeeklyTaskList: true},
	})
	assert.True(t, parts[0].DailyTaskList)
	assert.True(t, parts[0].WeeklyTaskList)
}
