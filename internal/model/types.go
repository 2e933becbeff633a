// Package model defines the record shapes shared across the scheduling
// pipeline. Date-time fields are local wall-clock strings interpreted in
// the record's named timezone: timestamps are "YYYY-MM-DDTHH:mm:ss",
// dates "YYYY-MM-DD", times of day "HH:mm:ss" and month-days "--MM-DD".
package model

// BufferTimes holds the pre/post meeting buffer lengths in minutes.
type BufferTimes struct {
	BeforeEvent int `json:"beforeEvent,omitempty"`
	AfterEvent  int `json:"afterEvent,omitempty"`
}

// Event is a calendar event as stored behind the gateway. ID follows the
// "uuid#calendarId" convention; EventID carries the bare provider id.
type Event struct {
	ID         string  `json:"id"`
	EventID    string  `json:"eventId"`
	UserID     string  `json:"userId"`
	CalendarID string  `json:"calendarId"`
	Title      *string `json:"title,omitempty"`
	Notes      *string `json:"notes,omitempty"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Timezone  string `json:"timezone"`
	AllDay    bool   `json:"allDay"`
	Duration  *int   `json:"duration,omitempty"`

	Method     string `json:"method"` // create | update
	Status     string `json:"status"`
	Modifiable bool   `json:"modifiable"`
	Priority   int    `json:"priority"`

	IsBreak                     bool `json:"isBreak"`
	IsMeeting                   bool `json:"isMeeting"`
	IsExternalMeeting           bool `json:"isExternalMeeting"`
	IsMeetingModifiable         bool `json:"isMeetingModifiable"`
	IsExternalMeetingModifiable bool `json:"isExternalMeetingModifiable"`

	DailyTaskList  bool    `json:"dailyTaskList"`
	WeeklyTaskList bool    `json:"weeklyTaskList"`
	TaskID         *string `json:"taskId,omitempty"`

	PreEventID   *string      `json:"preEventId,omitempty"`
	PostEventID  *string      `json:"postEventId,omitempty"`
	ForEventID   *string      `json:"forEventId,omitempty"`
	IsPreEvent   bool         `json:"isPreEvent"`
	IsPostEvent  bool         `json:"isPostEvent"`
	TimeBlocking *BufferTimes `json:"timeBlocking,omitempty"`

	RecurringEventID *string `json:"recurringEventId,omitempty"`
	MeetingID        *string `json:"meetingId,omitempty"`

	HardDeadline *string `json:"hardDeadline,omitempty"`
	SoftDeadline *string `json:"softDeadline,omitempty"`

	PreferredDayOfWeek      *int    `json:"preferredDayOfWeek,omitempty"`
	PreferredTime           *string `json:"preferredTime,omitempty"` // HH:mm:ss
	PreferredStartTimeRange *string `json:"preferredStartTimeRange,omitempty"`
	PreferredEndTimeRange   *string `json:"preferredEndTimeRange,omitempty"`

	PositiveImpactScore     int     `json:"positiveImpactScore,omitempty"`
	PositiveImpactDayOfWeek *int    `json:"positiveImpactDayOfWeek,omitempty"`
	PositiveImpactTime      *string `json:"positiveImpactTime,omitempty"`
	NegativeImpactScore     int     `json:"negativeImpactScore,omitempty"`
	NegativeImpactDayOfWeek *int    `json:"negativeImpactDayOfWeek,omitempty"`
	NegativeImpactTime      *string `json:"negativeImpactTime,omitempty"`

	// Attached by the pipeline, not fetched.
	PreferredTimeRanges []EventPreferredTimeRange `json:"preferredTimeRanges,omitempty"`
}

// EventPreferredTimeRange is a per-event preferred scheduling slot.
type EventPreferredTimeRange struct {
	ID        string  `json:"id"`
	EventID   string  `json:"eventId"`
	UserID    string  `json:"userId"`
	HostID    string  `json:"hostId,omitempty"`
	DayOfWeek *int    `json:"dayOfWeek,omitempty"` // ISO 1..7
	StartTime string  `json:"startTime"`           // HH:mm:ss
	EndTime   string  `json:"endTime"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
}

// DayTime positions a time of day on an ISO weekday for user preferences.
type DayTime struct {
	Day     int `json:"day"` // ISO 1..7
	Hour    int `json:"hour"`
	Minutes int `json:"minutes"`
}

// UserPreferences drives work-time and break generation for a user.
type UserPreferences struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	StartTimes []DayTime `json:"startTimes"`
	EndTimes   []DayTime `json:"endTimes"`

	BreakLength         int  `json:"breakLength"` // minutes, floored at 15
	MinNumberOfBreaks   int  `json:"minNumberOfBreaks"`
	MaxWorkLoadPercent  int  `json:"maxWorkLoadPercent"`
	MaxNumberOfMeetings int  `json:"maxNumberOfMeetings"`
	BackToBackMeetings  bool `json:"backToBackMeetings"`

	Reminders []int `json:"reminders,omitempty"` // minutes before event
}

// External attendees plan against fixed defaults since no preferences
// are stored for them.
const (
	ExternalMaxWorkLoadPercent = 100
	ExternalMaxMeetings        = 99
	ExternalMinBreaks          = 0
	ExternalBackToBack         = false
)

// MeetingAssist is a pending meeting to be placed inside a window.
type MeetingAssist struct {
	ID                string       `json:"id"`
	UserID            string       `json:"userId"` // host
	Summary           *string      `json:"summary,omitempty"`
	Notes             *string      `json:"notes,omitempty"`
	Timezone          string       `json:"timezone"`
	WindowStartDate   string       `json:"windowStartDate"`
	WindowEndDate     string       `json:"windowEndDate"`
	Duration          int          `json:"duration"` // minutes
	CalendarID        string       `json:"calendarId"`
	EventID           *string      `json:"eventId,omitempty"`
	MinThresholdCount int          `json:"minThresholdCount"`
	AttendeeCanModify bool         `json:"attendeeCanModify"`
	EnableConference  bool         `json:"enableConference"`
	ExpireDate        *string      `json:"expireDate,omitempty"`
	Cancelled         bool         `json:"cancelled"`
	OriginalMeetingID *string      `json:"originalMeetingId,omitempty"`
	Priority          int          `json:"priority"`
	BufferTime        *BufferTimes `json:"bufferTime,omitempty"`
	Reminders         []int        `json:"reminders,omitempty"`
	UseDefaultAlarms  bool         `json:"useDefaultAlarms"`
}

// MeetingAssistAttendee is a participant of a pending meeting.
type MeetingAssistAttendee struct {
	ID               string   `json:"id"`
	Name             *string  `json:"name,omitempty"`
	HostID           string   `json:"hostId"`
	UserID           string   `json:"userId"`
	Emails           []string `json:"emails,omitempty"`
	PrimaryEmail     *string  `json:"primaryEmail,omitempty"`
	Timezone         string   `json:"timezone"`
	ExternalAttendee bool     `json:"externalAttendee"`
	MeetingID        *string  `json:"meetingId,omitempty"`
}

// MeetingAssistEvent is a busy block from an external attendee's calendar.
type MeetingAssistEvent struct {
	ID         string  `json:"id"`
	AttendeeID string  `json:"attendeeId"`
	Summary    *string `json:"summary,omitempty"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Timezone   string  `json:"timezone"`
	AllDay     bool    `json:"allDay"`
	CalendarID string  `json:"calendarId"`
	EventID    string  `json:"eventId"`
}

// MeetingAssistPreferredTimeRange is an attendee-submitted preference for
// a pending meeting.
type MeetingAssistPreferredTimeRange struct {
	ID         string `json:"id"`
	MeetingID  string `json:"meetingId"`
	HostID     string `json:"hostId"`
	AttendeeID string `json:"attendeeId"`
	DayOfWeek  *int   `json:"dayOfWeek,omitempty"` // ISO 1..7
	StartTime  string `json:"startTime"`           // HH:mm:ss
	EndTime    string `json:"endTime"`
}

// Calendar identifies a user calendar; the global-primary calendar
// receives synthesized meeting events.
type Calendar struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Title         *string `json:"title,omitempty"`
	Primary       bool    `json:"primary"`
	GlobalPrimary bool    `json:"globalPrimary"`
}

// Reminder is an alarm attached to a synthesized meeting event.
type Reminder struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	EventID    string `json:"eventId"`
	Timezone   string `json:"timezone"`
	Minutes    int    `json:"minutes"`
	UseDefault bool   `json:"useDefault"`
}
