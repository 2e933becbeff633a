package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltaplan/schedule-assist/internal/model"
)

func nyWorkTimes() []model.WorkTime {
	var out []model.WorkTime
	for d := 1; d <= 7; d++ {
		out = append(out, model.WorkTime{
			UserID:    "u1",
			HostID:    "h1",
			DayOfWeek: model.DayOfWeekName(d),
			StartTime: "09:00:00",
			EndTime:   "17:00:00",
		})
	}
	return out
}

func TestFormatEventPartForPlanner_ConvertsToHostZone(t *testing.T) {
	ev := model.Event{ID: "e1#cal1", Timezone: "America/New_York"}
	preferred := "10:00:00"
	part := model.EventPart{
		GroupID:       "e1#cal1",
		Part:          1,
		LastPart:      1,
		EventID:       "e1#cal1",
		UserID:        "u1",
		HostID:        "h1",
		StartDate:     "2026-01-05T09:00:00",
		EndDate:       "2026-01-05T09:30:00",
		Timezone:      "America/New_York",
		PreferredTime: &preferred,
		Event:         &ev,
	}

	got, err := FormatEventPartForPlanner(part, nyWorkTimes(), weekdayPrefs(), "America/Los_Angeles")
	require.NoError(t, err)

	assert.Equal(t, "2026-01-05T06:00:00", got.EventPart.StartDate)
	assert.Equal(t, "2026-01-05T06:30:00", got.EventPart.EndDate)
	assert.Equal(t, "America/Los_Angeles", got.EventPart.Timezone)
	assert.Equal(t, "MONDAY", got.DayOfWeek)
	assert.Equal(t, "--01-05", got.MonthDay)
	assert.Equal(t, "06:00:00", got.StartTime)
	assert.Equal(t, "06:30:00", got.EndTime)
	assert.Equal(t, 8.0, got.TotalWorkingHours)

	require.NotNil(t, got.WorkTime)
	assert.Equal(t, "MONDAY", got.WorkTime.DayOfWeek)

	// 10:00 New York is 07:00 Los Angeles.
	require.NotNil(t, got.PreferredTime)
	assert.Equal(t, "07:00:00", *got.PreferredTime)
}

func TestFormatEventPartForExternalAttendee_HoursFromWorkTimes(t *testing.T) {
	part := model.EventPart{
		GroupID:   "e1#cal1",
		Part:      1,
		LastPart:  1,
		EventID:   "e1#cal1",
		UserID:    "ext1",
		HostID:    "h1",
		StartDate: "2026-01-05T09:00:00",
		EndDate:   "2026-01-05T09:30:00",
		Timezone:  "UTC",
	}
	workTimes := []model.WorkTime{{
		UserID: "ext1", HostID: "h1", DayOfWeek: "MONDAY",
		StartTime: "10:00:00", EndTime: "16:00:00",
	}}

	got, err := FormatEventPartForExternalAttendee(part, workTimes, "UTC")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.TotalWorkingHours)
}

func TestBuildUserPlannerBody(t *testing.T) {
	prefs := weekdayPrefs()
	body := BuildUserPlannerBody("u1", "h1", prefs, nyWorkTimes())
	assert.Equal(t, "u1", body.ID)
	assert.Equal(t, 85, body.MaxWorkLoadPercent)
	assert.Equal(t, 1, body.MinNumberOfBreaks)
	assert.Len(t, body.WorkTimes, 7)
}

func TestBuildExternalUserPlannerBody_Defaults(t *testing.T) {
	body := BuildExternalUserPlannerBody("ext1", "h1", nil)
	assert.Equal(t, model.ExternalMaxWorkLoadPercent, body.MaxWorkLoadPercent)
	assert.Equal(t, model.ExternalMaxMeetings, body.MaxNumberOfMeetings)
	assert.Equal(t, model.ExternalMinBreaks, body.MinNumberOfBreaks)
	assert.False(t, body.BackToBackMeetings)
}
