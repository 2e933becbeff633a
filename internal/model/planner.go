package model

// DayOfWeekName maps an ISO weekday (1..7) to the solver's enum spelling.
func DayOfWeekName(isoDay int) string {
	switch isoDay {
	case 1:
		return "MONDAY"
	case 2:
		return "TUESDAY"
	case 3:
		return "WEDNESDAY"
	case 4:
		return "THURSDAY"
	case 5:
		return "FRIDAY"
	case 6:
		return "SATURDAY"
	case 7:
		return "SUNDAY"
	}
	return ""
}

// WorkTime is one weekday of a user's availability, expressed in the
// host's timezone.
type WorkTime struct {
	UserID    string `json:"userId"`
	HostID    string `json:"hostId"`
	DayOfWeek string `json:"dayOfWeek"` // MONDAY..SUNDAY
	StartTime string `json:"startTime"` // HH:mm:ss
	EndTime   string `json:"endTime"`
}

// TimeSlot is one 30-minute cell of the planning grid, in host time.
type TimeSlot struct {
	HostID    string `json:"hostId"`
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	MonthDay  string `json:"monthDay"` // --MM-DD
	Date      string `json:"date"`     // YYYY-MM-DD
}

// EventPart is a 30-minute (or remainder) slice of an event. Part and
// LastPart are 1-based within the part group; GroupID starts as the
// owning event's id and is replaced when buffers are spliced in.
type EventPart struct {
	GroupID  string `json:"groupId"`
	Part     int    `json:"part"`
	LastPart int    `json:"lastPart"`

	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
	HostID  string `json:"hostId"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Timezone  string `json:"timezone,omitempty"`

	Priority   int  `json:"priority"`
	Modifiable bool `json:"modifiable"`
	Gap        bool `json:"gap"` // true for break parts

	IsMeeting                   bool `json:"isMeeting"`
	IsExternalMeeting           bool `json:"isExternalMeeting"`
	IsMeetingModifiable         bool `json:"isMeetingModifiable"`
	IsExternalMeetingModifiable bool `json:"isExternalMeetingModifiable"`
	IsPreEvent                  bool `json:"isPreEvent"`
	IsPostEvent                 bool `json:"isPostEvent"`

	DailyTaskList  bool    `json:"dailyTaskList"`
	WeeklyTaskList bool    `json:"weeklyTaskList"`
	TaskID         *string `json:"taskId,omitempty"`

	ForEventID  *string `json:"forEventId,omitempty"`
	PreEventID  *string `json:"preEventId,omitempty"`
	PostEventID *string `json:"postEventId,omitempty"`
	MeetingID   *string `json:"meetingId,omitempty"`

	HardDeadline *string `json:"hardDeadline,omitempty"`
	SoftDeadline *string `json:"softDeadline,omitempty"`

	PreferredDayOfWeek      *int    `json:"preferredDayOfWeek,omitempty"`
	PreferredTime           *string `json:"preferredTime,omitempty"`
	PreferredStartTimeRange *string `json:"preferredStartTimeRange,omitempty"`
	PreferredEndTimeRange   *string `json:"preferredEndTimeRange,omitempty"`

	PositiveImpactScore     int     `json:"positiveImpactScore,omitempty"`
	PositiveImpactDayOfWeek *int    `json:"positiveImpactDayOfWeek,omitempty"`
	PositiveImpactTime      *string `json:"positiveImpactTime,omitempty"`
	NegativeImpactScore     int     `json:"negativeImpactScore,omitempty"`
	NegativeImpactDayOfWeek *int    `json:"negativeImpactDayOfWeek,omitempty"`
	NegativeImpactTime      *string `json:"negativeImpactTime,omitempty"`

	Event *Event `json:"event,omitempty"`
}

// EventPartPlanner is an EventPart formatted for the solver: dates in
// host time, day/clock fields precomputed, user context attached.
type EventPartPlanner struct {
	EventPart

	DayOfWeek         string           `json:"dayOfWeek"`
	MonthDay          string           `json:"monthDay"`
	StartTime         string           `json:"startTime"`
	EndTime           string           `json:"endTime"`
	TotalWorkingHours float64          `json:"totalWorkingHours"`
	WorkTime          *WorkTime        `json:"workTime,omitempty"`
	User              *UserPlannerBody `json:"user,omitempty"`
}

// UserPlannerBody is one entry of the solver's user list.
type UserPlannerBody struct {
	ID                  string     `json:"id"`
	HostID              string     `json:"hostId"`
	MaxWorkLoadPercent  int        `json:"maxWorkLoadPercent"`
	BackToBackMeetings  bool       `json:"backToBackMeetings"`
	MaxNumberOfMeetings int        `json:"maxNumberOfMeetings"`
	MinNumberOfBreaks   int        `json:"minNumberOfBreaks"`
	WorkTimes           []WorkTime `json:"workTimes"`
}

// PlannerRequestBody is the solver dispatch payload.
type PlannerRequestBody struct {
	SingletonID string             `json:"singletonId"`
	HostID      string             `json:"hostId"`
	Timeslots   []TimeSlot         `json:"timeslots"`
	UserList    []UserPlannerBody  `json:"userList"`
	EventParts  []EventPartPlanner `json:"eventParts"`
	FileKey     string             `json:"fileKey"`
	Delay       int64              `json:"delay"` // milliseconds
	CallBackURL string             `json:"callBackUrl"`
}

// PlannerBundle is the JSON document persisted to the object store
// before solver dispatch; the callback handler reads it back by FileKey.
type PlannerBundle struct {
	SingletonID        string               `json:"singletonId"`
	HostID             string               `json:"hostId"`
	EventParts         []EventPartPlanner   `json:"eventParts"`
	AllEvents          []Event              `json:"allEvents"`
	BreakEvents        []Event              `json:"breaks,omitempty"`
	OldEvents          []Event              `json:"oldEvents,omitempty"`
	OldAttendeeEvents  []MeetingAssistEvent `json:"oldAttendeeEvents,omitempty"`
	Timeslots          []TimeSlot           `json:"timeslots"`
	UserList           []UserPlannerBody    `json:"userList"`
	NewHostReminders   []Reminder           `json:"newHostReminders,omitempty"`
	NewHostBufferTimes []Event              `json:"newHostBufferTimes,omitempty"`
}
