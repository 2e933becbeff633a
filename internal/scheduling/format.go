package scheduling

import (
	"github.com/pkg/errors"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

// FormatEventPartForPlanner renders one part for the solver: start and
// end moved into the host's timezone, day/clock fields precomputed, the
// matching work time attached, and preference clocks converted from the
// event's timezone to the host's.
func FormatEventPartForPlanner(part model.EventPart, workTimes []model.WorkTime, prefs *model.UserPreferences, hostTZ string) (model.EventPartPlanner, error) {
	hostLoc, err := wallclock.Location(hostTZ)
	if err != nil {
		return model.EventPartPlanner{}, err
	}
	start, err := wallclock.Parse(part.StartDate, part.Timezone)
	if err != nil {
		return model.EventPartPlanner{}, errors.Wrapf(err, "format part %s/%d", part.GroupID, part.Part)
	}
	end, err := wallclock.Parse(part.EndDate, part.Timezone)
	if err != nil {
		return model.EventPartPlanner{}, errors.Wrapf(err, "format part %s/%d", part.GroupID, part.Part)
	}
	hs, he := start.In(hostLoc), end.In(hostLoc)
	isoDay := wallclock.ISOWeekday(hs)

	out := model.EventPartPlanner{
		EventPart:         part,
		DayOfWeek:         model.DayOfWeekName(isoDay),
		MonthDay:          wallclock.FormatMonthDay(hs),
		StartTime:         wallclock.FormatClock(hs),
		EndTime:           wallclock.FormatClock(he),
		TotalWorkingHours: TotalWorkingHours(prefs, isoDay),
	}
	out.EventPart.StartDate = wallclock.Format(hs)
	out.EventPart.EndDate = wallclock.Format(he)
	out.EventPart.Timezone = hostTZ

	for i := range workTimes {
		if workTimes[i].DayOfWeek == out.DayOfWeek {
			wt := workTimes[i]
			out.WorkTime = &wt
			break
		}
	}

	if err := convertPreferenceClocks(&out, part.Timezone); err != nil {
		return model.EventPartPlanner{}, err
	}
	return out, nil
}

// FormatEventPartForExternalAttendee is the external-attendee variant:
// no stored preferences exist, so the defaults drive totalWorkingHours
// through the observed work times instead.
func FormatEventPartForExternalAttendee(part model.EventPart, workTimes []model.WorkTime, hostTZ string) (model.EventPartPlanner, error) {
	out, err := FormatEventPartForPlanner(part, workTimes, nil, hostTZ)
	if err != nil {
		return model.EventPartPlanner{}, err
	}
	if out.WorkTime != nil {
		hours, err := clockSpanHours(out.WorkTime.StartTime, out.WorkTime.EndTime)
		if err != nil {
			return model.EventPartPlanner{}, err
		}
		out.TotalWorkingHours = hours
	}
	return out, nil
}

// convertPreferenceClocks moves preferred and impact times from the
// event's timezone into the host's, anchored on the part's start day.
func convertPreferenceClocks(out *model.EventPartPlanner, eventTZ string) error {
	convert := func(clock *string) (*string, error) {
		if clock == nil {
			return nil, nil
		}
		converted, err := convertClock(*clock, out.EventPart.StartDate, eventTZ, out.EventPart.Timezone)
		if err != nil {
			return nil, err
		}
		return &converted, nil
	}

	var err error
	if out.PreferredTime, err = convert(out.PreferredTime); err != nil {
		return err
	}
	if out.PreferredStartTimeRange, err = convert(out.PreferredStartTimeRange); err != nil {
		return err
	}
	if out.PreferredEndTimeRange, err = convert(out.PreferredEndTimeRange); err != nil {
		return err
	}
	if out.PositiveImpactTime, err = convert(out.PositiveImpactTime); err != nil {
		return err
	}
	if out.NegativeImpactTime, err = convert(out.NegativeImpactTime); err != nil {
		return err
	}
	return nil
}

// convertClock re-expresses an HH:mm:ss clock from one zone in another,
// anchored on the given host-local date.
func convertClock(clock, hostDate, fromTZ, toTZ string) (string, error) {
	anchor, err := wallclock.Parse(hostDate, toTZ)
	if err != nil {
		return "", err
	}
	fromLoc, err := wallclock.Location(fromTZ)
	if err != nil {
		return "", err
	}
	h, m, s, err := parseClock(clock)
	if err != nil {
		return "", err
	}
	inFrom := wallclock.AtClock(anchor.In(fromLoc), h, m)
	if s != 0 {
		inFrom = inFrom.Add(secondDuration(s))
	}
	converted, err := wallclock.InZone(inFrom, toTZ)
	if err != nil {
		return "", err
	}
	return wallclock.FormatClock(converted), nil
}

// BuildUserPlannerBody assembles the solver user-list entry for an
// internal user from stored preferences.
func BuildUserPlannerBody(userID, hostID string, prefs *model.UserPreferences, workTimes []model.WorkTime) model.UserPlannerBody {
	body := model.UserPlannerBody{
		ID:                  userID,
		HostID:              hostID,
		MaxWorkLoadPercent:  model.ExternalMaxWorkLoadPercent,
		BackToBackMeetings:  model.ExternalBackToBack,
		MaxNumberOfMeetings: model.ExternalMaxMeetings,
		MinNumberOfBreaks:   model.ExternalMinBreaks,
		WorkTimes:           workTimes,
	}
	if prefs != nil {
		body.MaxWorkLoadPercent = prefs.MaxWorkLoadPercent
		body.BackToBackMeetings = prefs.BackToBackMeetings
		body.MaxNumberOfMeetings = prefs.MaxNumberOfMeetings
		body.MinNumberOfBreaks = prefs.MinNumberOfBreaks
	}
	return body
}

// BuildExternalUserPlannerBody assembles the user-list entry for an
// external attendee with the fixed defaults.
func BuildExternalUserPlannerBody(userID, hostID string, workTimes []model.WorkTime) model.UserPlannerBody {
	return BuildUserPlannerBody(userID, hostID, nil, workTimes)
}
