package gateway

const eventFields = `
      id
      eventId
      userId
      calendarId
      title
      startDate
      endDate
      timezone
      allDay
      duration
      method
      status
      modifiable
      priority
      isBreak
      isMeeting
      isExternalMeeting
      isMeetingModifiable
      isExternalMeetingModifiable
      dailyTaskList
      weeklyTaskList
      taskId
      preEventId
      postEventId
      forEventId
      isPreEvent
      isPostEvent
      timeBlocking
      recurringEventId
      meetingId
      hardDeadline
      softDeadline
      preferredDayOfWeek
      preferredTime
      preferredStartTimeRange
      preferredEndTimeRange
      positiveImpactScore
      positiveImpactDayOfWeek
      positiveImpactTime
      negativeImpactScore
      negativeImpactDayOfWeek
      negativeImpactTime`

const queryListEventsForUserGivenDates = `
  query listEventsForUserGivenDates($userId: uuid!, $startDate: timestamp!, $endDate: timestamp!) {
    Event(where: {userId: {_eq: $userId}, allDay: {_neq: true}, deleted: {_neq: true},
                  _or: [{startDate: {_gte: $startDate, _lte: $endDate}}, {endDate: {_gte: $startDate, _lte: $endDate}}]}) {` + eventFields + `
    }
  }`

const queryListEventsForDate = `
  query listEventsForDate($userId: uuid!, $startDate: timestamp!, $endDate: timestamp!) {
    Event(where: {userId: {_eq: $userId}, deleted: {_neq: true},
                  startDate: {_gte: $startDate, _lt: $endDate}}) {` + eventFields + `
    }
  }`

const queryListEventsForUserGivenMeetingID = `
  query listEventsForUserGivenMeetingId($userId: uuid!, $meetingId: uuid!) {
    Event(where: {userId: {_eq: $userId}, meetingId: {_eq: $meetingId}, deleted: {_neq: true}}) {` + eventFields + `
    }
  }`

const queryGetUserPreferences = `
  query getUserPreferences($userId: uuid!) {
    User_Preference(where: {userId: {_eq: $userId}}) {
      id
      userId
      startTimes
      endTimes
      breakLength
      minNumberOfBreaks
      maxWorkLoadPercent
      maxNumberOfMeetings
      backToBackMeetings
      reminders
    }
  }`

const queryGetMeetingAssist = `
  query getMeetingAssist($id: uuid!) {
    Meeting_Assist_by_pk(id: $id) {
      id
      userId
      summary
      notes
      timezone
      windowStartDate
      windowEndDate
      duration
      calendarId
      eventId
      minThresholdCount
      attendeeCanModify
      enableConference
      expireDate
      cancelled
      originalMeetingId
      priority
      bufferTime
      reminders
      useDefaultAlarms
    }
  }`

const queryListMeetingAssistAttendees = `
  query listMeetingAssistAttendees($meetingId: uuid!) {
    Meeting_Assist_Attendee(where: {meetingId: {_eq: $meetingId}}) {
      id
      name
      hostId
      userId
      emails
      primaryEmail
      timezone
      externalAttendee
      meetingId
    }
  }`

const queryListMeetingAssistEvents = `
  query listMeetingAssistEventsForAttendeeGivenDates($attendeeId: uuid!, $startDate: timestamp!, $endDate: timestamp!) {
    Meeting_Assist_Event(where: {attendeeId: {_eq: $attendeeId}, allDay: {_neq: true},
                                 _or: [{startDate: {_gte: $startDate, _lte: $endDate}}, {endDate: {_gte: $startDate, _lte: $endDate}}]}) {
      id
      attendeeId
      summary
      startDate
      endDate
      timezone
      allDay
      calendarId
      eventId
    }
  }`

const queryListMeetingAssistPreferredTimeRanges = `
  query listMeetingAssistPreferredTimeRanges($meetingId: uuid!) {
    Meeting_Assist_Preferred_Time_Range(where: {meetingId: {_eq: $meetingId}}) {
      id
      meetingId
      hostId
      attendeeId
      dayOfWeek
      startTime
      endTime
    }
  }`

const queryListFutureMeetingAssists = `
  query listFutureMeetingAssists($userId: uuid!, $windowStartDate: timestamp!, $windowEndDate: timestamp!) {
    Meeting_Assist(where: {userId: {_eq: $userId}, cancelled: {_neq: true},
                           windowStartDate: {_gte: $windowStartDate}, windowEndDate: {_lte: $windowEndDate}}) {
      id
      userId
      summary
      notes
      timezone
      windowStartDate
      windowEndDate
      duration
      calendarId
      eventId
      minThresholdCount
      attendeeCanModify
      enableConference
      expireDate
      cancelled
      originalMeetingId
      priority
      bufferTime
      reminders
      useDefaultAlarms
    }
  }`

const queryMeetingAttendeeCount = `
  query meetingAttendeeCount($meetingId: uuid!) {
    Meeting_Assist_Attendee_aggregate(where: {meetingId: {_eq: $meetingId}}) {
      aggregate {
        count
      }
    }
  }`

const queryListPreferredTimeRangesForEvent = `
  query listPreferredTimeRangesForEvent($eventId: String!) {
    PreferredTimeRange(where: {eventId: {_eq: $eventId}}) {
      id
      eventId
      userId
      dayOfWeek
      startTime
      endTime
      updatedAt
    }
  }`

const queryGetGlobalPrimaryCalendar = `
  query getGlobalPrimaryCalendar($userId: uuid!) {
    Calendar(where: {userId: {_eq: $userId}, globalPrimary: {_eq: true}}) {
      id
      userId
      title
      primary
      globalPrimary
    }
  }`
