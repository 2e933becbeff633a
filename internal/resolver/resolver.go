// Package resolver turns pending meeting-assists into placeholder
// events so the assembler can plan them alongside the calendar.
package resolver

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/scheduling"
)

// Gateway is the slice of the GraphQL client the resolver reads through.
type Gateway interface {
	GetMeetingAssist(ctx context.Context, meetingID string) (*model.MeetingAssist, error)
	MeetingAttendeeCount(ctx context.Context, meetingID string) (int, error)
	ListMeetingAssistAttendees(ctx context.Context, meetingID string) ([]model.MeetingAssistAttendee, error)
	ListMeetingAssistPreferredTimeRanges(ctx context.Context, meetingID string) ([]model.MeetingAssistPreferredTimeRange, error)
	ListFutureMeetingAssists(ctx context.Context, userID, windowStart, windowEnd string) ([]model.MeetingAssist, error)
	ListEventsForUserGivenMeetingID(ctx context.Context, userID, meetingID string) ([]model.Event, error)
	GetGlobalPrimaryCalendar(ctx context.Context, userID string) (*model.Calendar, error)
}

// Result is what one resolution pass contributes to the planning run.
type Result struct {
	Events        []model.Event
	Attendees     []model.MeetingAssistAttendee
	HostReminders []model.Reminder
	HostBuffers   []model.Event
}

// Resolver processes pending meetings with per-meeting containment: a
// broken meeting is logged and skipped, never failing the run.
type Resolver struct {
	gw          Gateway
	log         zerolog.Logger
	pick        scheduling.RangePicker
	concurrency int
}

func New(gw Gateway, concurrency int, log zerolog.Logger) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{
		gw:          gw,
		log:         log.With().Str("component", "resolver").Logger(),
		pick:        rand.Intn,
		concurrency: concurrency,
	}
}

// WithRangePicker overrides the preferred-range selection, for tests.
func (r *Resolver) WithRangePicker(pick scheduling.RangePicker) *Resolver {
	r.pick = pick
	return r
}

// ResolveBound processes the meeting ids referenced by host events in
// the window. Bound meetings are always expanded; the quorum threshold
// only applies before a meeting is tied to an event.
func (r *Resolver) ResolveBound(ctx context.Context, hostID string, meetingIDs []string) (Result, error) {
	return r.resolveAll(ctx, hostID, meetingIDs, false)
}

// ResolveFuture processes pending meetings whose windows fall inside
// the planning window but are not yet bound to any event.
func (r *Resolver) ResolveFuture(ctx context.Context, hostID, windowStart, windowEnd string) (Result, error) {
	assists, err := r.gw.ListFutureMeetingAssists(ctx, hostID, windowStart, windowEnd)
	if err != nil {
		return Result{}, errors.Wrap(err, "list future meeting assists")
	}
	ids := make([]string, 0, len(assists))
	for _, ma := range assists {
		if ma.EventID == nil {
			ids = append(ids, ma.ID)
		}
	}
	return r.resolveAll(ctx, hostID, ids, true)
}

func (r *Resolver) resolveAll(ctx context.Context, hostID string, meetingIDs []string, gateQuorum bool) (Result, error) {
	var mu sync.Mutex
	var out Result

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, id := range meetingIDs {
		g.Go(func() error {
			res, err := r.resolveOne(gctx, hostID, id, gateQuorum)
			if err != nil {
				// Contained: the rest of the run proceeds.
				r.log.Warn().Err(err).Str("meetingId", id).Msg("meeting assist skipped")
				return nil
			}
			if res == nil {
				return nil
			}
			mu.Lock()
			out.Events = append(out.Events, res.Events...)
			out.Attendees = append(out.Attendees, res.Attendees...)
			out.HostReminders = append(out.HostReminders, res.HostReminders...)
			out.HostBuffers = append(out.HostBuffers, res.HostBuffers...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return out, nil
}

// resolveOne handles a single pending meeting. A nil result means the
// meeting was legitimately skipped (cancelled or below quorum).
func (r *Resolver) resolveOne(ctx context.Context, hostID, meetingID string, gateQuorum bool) (*Result, error) {
	assist, err := r.gw.GetMeetingAssist(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if assist == nil || assist.Cancelled {
		return nil, nil
	}

	if gateQuorum {
		count, err := r.gw.MeetingAttendeeCount(ctx, meetingID)
		if err != nil {
			return nil, err
		}
		if count < assist.MinThresholdCount {
			r.log.Info().
				Str("meetingId", meetingID).
				Int("count", count).
				Int("minThreshold", assist.MinThresholdCount).
				Msg("quorum not met, meeting deferred")
			return nil, nil
		}
	}

	attendees, err := r.gw.ListMeetingAssistAttendees(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	ranges, err := r.gw.ListMeetingAssistPreferredTimeRanges(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	res := &Result{Attendees: attendees}
	for i := range attendees {
		att := &attendees[i]

		existing, err := r.gw.ListEventsForUserGivenMeetingID(ctx, att.UserID, meetingID)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			// Already materialized on a previous run.
			continue
		}

		calendarID := assist.CalendarID
		if !att.ExternalAttendee {
			cal, err := r.gw.GetGlobalPrimaryCalendar(ctx, att.UserID)
			if err != nil {
				return nil, err
			}
			if cal != nil {
				calendarID = cal.ID
			}
		}

		ev, err := scheduling.GenerateNewMeetingEventForAttendee(assist, att, hostID, calendarID, attendeeRanges(ranges, att.ID), r.pick)
		if err != nil {
			return nil, err
		}

		if att.UserID == hostID {
			if assist.BufferTime != nil {
				buffers, err := scheduling.CreateBufferTimeForNewMeetingEvent(&ev, *assist.BufferTime)
				if err != nil {
					return nil, err
				}
				res.HostBuffers = append(res.HostBuffers, buffers...)
				res.Events = append(res.Events, buffers...)
			}
			res.HostReminders = append(res.HostReminders,
				scheduling.CreateRemindersFromMinutesAndEvent(ev.ID, att.UserID, ev.Timezone, assist.Reminders, assist.UseDefaultAlarms)...)
		}
		res.Events = append(res.Events, ev)
	}
	return res, nil
}

// attendeeRanges prefers ranges the attendee submitted, falling back to
// everyone's when they submitted none.
func attendeeRanges(ranges []model.MeetingAssistPreferredTimeRange, attendeeID string) []model.MeetingAssistPreferredTimeRange {
	var own []model.MeetingAssistPreferredTimeRange
	for _, r := range ranges {
		if r.AttendeeID == attendeeID {
			own = append(own, r)
		}
	}
	if len(own) > 0 {
		return own
	}
	return ranges
}
