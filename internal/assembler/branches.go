package assembler

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/scheduling"
	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

// BranchKind tags a branch result so downstream code never guesses from
// which fields happen to be populated.
type BranchKind int

const (
	BranchHost BranchKind = iota + 1
	BranchInternal
	BranchExternal
)

// BranchResult is the output of one participant's branch.
type BranchResult struct {
	Kind   BranchKind
	UserID string

	EventParts        []model.EventPartPlanner
	AllEvents         []model.Event
	Breaks            []model.Event
	OldEvents         []model.Event
	OldAttendeeEvents []model.MeetingAssistEvent
	Timeslots         []model.TimeSlot
	UserBody          model.UserPlannerBody
}

// processHost handles the host's own calendar: events, breaks, the
// planning grid and the host's user-list entry.
func (a *Assembler) processHost(ctx context.Context, in Input) (BranchResult, error) {
	windowStart, err := wallclock.Parse(in.WindowStartDate, in.HostTimezone)
	if err != nil {
		return BranchResult{}, err
	}

	events, err := a.gw.ListEventsForUserGivenDates(ctx, in.HostID, in.WindowStartDate, in.WindowEndDate)
	if err != nil {
		return BranchResult{}, err
	}
	oldEvents := events
	events = filterPlannable(events)
	for _, ev := range in.NewMeetingEvents {
		if ev.UserID == in.HostID {
			events = append(events, ev)
		}
	}

	prefs, err := a.gw.GetUserPreferences(ctx, in.HostID)
	if err != nil {
		return BranchResult{}, err
	}
	if prefs == nil {
		return BranchResult{}, errors.Errorf("user preferences missing for %s", in.HostID)
	}
	workTimes, err := scheduling.GenerateWorkTimesForUser(prefs, in.HostID, in.HostID, in.HostTimezone, in.HostTimezone, windowStart)
	if err != nil {
		return BranchResult{}, err
	}

	timeslots, err := scheduling.GenerateTimeSlotsForWindow(in.WindowStartDate, in.WindowEndDate, in.HostTimezone, in.HostID, prefs, a.now())
	if err != nil {
		return BranchResult{}, err
	}

	calendarID := ""
	if len(events) > 0 {
		calendarID = events[0].CalendarID
	}
	breaks, err := a.generateBreaksForWindow(ctx, in, prefs, calendarID)
	if err != nil {
		return BranchResult{}, err
	}
	events = append(events, breaks...)

	if err := a.attachPreferredTimeRanges(ctx, events); err != nil {
		return BranchResult{}, err
	}

	parts, err := a.buildPlannerParts(events, workTimes, prefs, in)
	if err != nil {
		return BranchResult{}, err
	}

	return BranchResult{
		Kind:       BranchHost,
		UserID:     in.HostID,
		EventParts: parts,
		AllEvents:  events,
		Breaks:     breaks,
		OldEvents:  oldEvents,
		Timeslots:  timeslots,
		UserBody:   scheduling.BuildUserPlannerBody(in.HostID, in.HostID, prefs, workTimes),
	}, nil
}

// processInternalAttendee handles a registered user attending a pending
// meeting: their own events and preferences, in the host's grid.
func (a *Assembler) processInternalAttendee(ctx context.Context, in Input, att model.MeetingAssistAttendee) (BranchResult, error) {
	events, err := a.gw.ListEventsForUserGivenDates(ctx, att.UserID, in.WindowStartDate, in.WindowEndDate)
	if err != nil {
		return BranchResult{}, err
	}
	oldEvents := events
	events = filterPlannable(events)
	for _, ev := range in.NewMeetingEvents {
		if ev.UserID == att.UserID {
			events = append(events, ev)
		}
	}

	prefs, err := a.gw.GetUserPreferences(ctx, att.UserID)
	if err != nil {
		return BranchResult{}, err
	}
	if prefs == nil {
		return BranchResult{}, errors.Errorf("user preferences missing for %s", att.UserID)
	}
	windowStart, err := wallclock.Parse(in.WindowStartDate, in.HostTimezone)
	if err != nil {
		return BranchResult{}, err
	}

	userTZ := att.Timezone
	if userTZ == "" {
		userTZ = in.HostTimezone
	}
	workTimes, err := scheduling.GenerateWorkTimesForUser(prefs, att.UserID, in.HostID, userTZ, in.HostTimezone, windowStart)
	if err != nil {
		return BranchResult{}, err
	}

	if err := a.attachPreferredTimeRanges(ctx, events); err != nil {
		return BranchResult{}, err
	}

	parts, err := a.buildPlannerParts(events, workTimes, prefs, in)
	if err != nil {
		return BranchResult{}, err
	}

	return BranchResult{
		Kind:       BranchInternal,
		UserID:     att.UserID,
		EventParts: parts,
		AllEvents:  events,
		OldEvents:  oldEvents,
		UserBody:   scheduling.BuildUserPlannerBody(att.UserID, in.HostID, prefs, workTimes),
	}, nil
}

// processExternalAttendee handles an unregistered participant: only the
// busy blocks synced for the pending meeting exist, and the default
// preference block applies.
func (a *Assembler) processExternalAttendee(ctx context.Context, in Input, att model.MeetingAssistAttendee) (BranchResult, error) {
	maEvents, err := a.gw.ListMeetingAssistEventsForAttendeeGivenDates(ctx, att.ID, in.WindowStartDate, in.WindowEndDate)
	if err != nil {
		return BranchResult{}, err
	}

	events := make([]model.Event, 0, len(maEvents))
	for _, mae := range maEvents {
		if mae.AllDay {
			continue
		}
		events = append(events, scheduling.ConvertMeetingAssistEventToEvent(mae, att.UserID))
	}
	for _, ev := range in.NewMeetingEvents {
		if ev.UserID == att.UserID {
			events = append(events, ev)
		}
	}

	windowStart, err := wallclock.Parse(in.WindowStartDate, in.HostTimezone)
	if err != nil {
		return BranchResult{}, err
	}
	workTimes, err := scheduling.GenerateWorkTimesForExternalAttendee(maEvents, att.UserID, in.HostID, in.HostTimezone, windowStart)
	if err != nil {
		return BranchResult{}, err
	}

	rawParts, err := scheduling.GenerateEventPartsForEvents(events, in.HostID)
	if err != nil {
		return BranchResult{}, err
	}
	rawParts = scheduling.SplicePreBufferParts(rawParts)
	rawParts = scheduling.SplicePostBufferParts(rawParts)

	parts := make([]model.EventPartPlanner, 0, len(rawParts))
	for _, p := range rawParts {
		fp, err := scheduling.FormatEventPartForExternalAttendee(p, workTimes, in.HostTimezone)
		if err != nil {
			return BranchResult{}, err
		}
		if err := scheduling.SetPreferredTimeForUnmodifiableEvent(&fp, p.Timezone); err != nil {
			return BranchResult{}, err
		}
		parts = append(parts, fp)
	}

	return BranchResult{
		Kind:              BranchExternal,
		UserID:            att.UserID,
		EventParts:        parts,
		AllEvents:         events,
		OldAttendeeEvents: maEvents,
		UserBody:          scheduling.BuildExternalUserPlannerBody(att.UserID, in.HostID, workTimes),
	}, nil
}

// generateBreaksForWindow fans out over the window's days on the shared
// bound, fetching each day's events fresh, and joins before returning.
func (a *Assembler) generateBreaksForWindow(ctx context.Context, in Input, prefs *model.UserPreferences, calendarID string) ([]model.Event, error) {
	windowStart, err := wallclock.Parse(in.WindowStartDate, in.HostTimezone)
	if err != nil {
		return nil, err
	}
	windowEnd, err := wallclock.Parse(in.WindowEndDate, in.HostTimezone)
	if err != nil {
		return nil, err
	}

	days := wallclock.DaysInWindow(windowStart, windowEnd)
	perDay := make([][]model.Event, days)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := 0; i < days; i++ {
		day := wallclock.AtClock(windowStart.AddDate(0, 0, i), 0, 0)
		g.Go(func() error {
			dayEvents, err := a.gw.ListEventsForDate(gctx, in.HostID,
				wallclock.Format(day), wallclock.Format(day.AddDate(0, 0, 1)))
			if err != nil {
				return errors.Wrapf(err, "events for %s", wallclock.FormatDate(day))
			}
			breaks, err := scheduling.GenerateBreaksForDay(prefs, day, dayEvents, in.HostID, in.HostID, calendarID, in.HostTimezone)
			if err != nil {
				return errors.Wrapf(err, "breaks for %s", wallclock.FormatDate(day))
			}
			perDay[i] = breaks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.Event
	for _, breaks := range perDay {
		out = append(out, breaks...)
	}
	return out, nil
}

// attachPreferredTimeRanges loads the per-event preferred slots for
// modifiable, non-break events, bounded by the worker pool size.
func (a *Assembler) attachPreferredTimeRanges(ctx context.Context, events []model.Event) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range events {
		if events[i].IsBreak || !events[i].Modifiable {
			continue
		}
		g.Go(func() error {
			ranges, err := a.gw.ListPreferredTimeRangesForEvent(gctx, events[i].ID)
			if err != nil {
				return errors.Wrapf(err, "preferred ranges for %s", events[i].ID)
			}
			events[i].PreferredTimeRanges = ranges
			return nil
		})
	}
	return g.Wait()
}

// buildPlannerParts decomposes, splices buffers, tags recurring task
// instances, formats and pins one participant's events.
func (a *Assembler) buildPlannerParts(events []model.Event, workTimes []model.WorkTime, prefs *model.UserPreferences, in Input) ([]model.EventPartPlanner, error) {
	rawParts, err := scheduling.GenerateEventPartsForEvents(events, in.HostID)
	if err != nil {
		return nil, err
	}
	rawParts = scheduling.SplicePreBufferParts(rawParts)
	rawParts = scheduling.SplicePostBufferParts(rawParts)

	originals := make(map[string]model.Event, len(events))
	for _, ev := range events {
		originals[ev.ID] = ev
	}
	scheduling.TagPartsForDailyOrWeeklyTask(rawParts, originals)

	parts := make([]model.EventPartPlanner, 0, len(rawParts))
	for _, p := range rawParts {
		fp, err := scheduling.FormatEventPartForPlanner(p, workTimes, prefs, in.HostTimezone)
		if err != nil {
			return nil, err
		}
		if err := scheduling.SetPreferredTimeForUnmodifiableEvent(&fp, p.Timezone); err != nil {
			return nil, err
		}
		parts = append(parts, fp)
	}
	return parts, nil
}

// filterPlannable drops events the planner cannot move or reason about.
func filterPlannable(events []model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.AllDay || e.Status == "cancelled" {
			continue
		}
		out = append(out, e)
	}
	return out
}
