// Package worker consumes planning requests from the queue and drives a
// run through resolution, assembly and dispatch.
package worker

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/veltaplan/schedule-assist/internal/assembler"
	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/nlparser"
	"github.com/veltaplan/schedule-assist/internal/resolver"
)

// EventLister resolves the meeting ids bound inside the window.
type EventLister interface {
	ListEventsForUserGivenDates(ctx context.Context, userID, startDate, endDate string) ([]model.Event, error)
}

// MeetingResolver is the meeting-assist resolution phase.
type MeetingResolver interface {
	ResolveBound(ctx context.Context, hostID string, meetingIDs []string) (resolver.Result, error)
	ResolveFuture(ctx context.Context, hostID, windowStart, windowEnd string) (resolver.Result, error)
}

// RunAssembler is the assembly phase.
type RunAssembler interface {
	Run(ctx context.Context, in assembler.Input) (*model.PlannerRequestBody, error)
}

// Parser refines the window from free text. Nil disables parsing.
type Parser interface {
	Parse(ctx context.Context, text, timezone string) (*nlparser.Hints, error)
}

// Handler executes the per-message state machine:
// resolve meeting-assists, assemble, persist, dispatch.
type Handler struct {
	events    EventLister
	resolver  MeetingResolver
	assembler RunAssembler
	parser    Parser
	log       zerolog.Logger
}

func NewHandler(events EventLister, res MeetingResolver, asm RunAssembler, parser Parser, log zerolog.Logger) *Handler {
	return &Handler{
		events:    events,
		resolver:  res,
		assembler: asm,
		parser:    parser,
		log:       log.With().Str("component", "worker").Logger(),
	}
}

// Handle runs one planning request end to end.
func (h *Handler) Handle(ctx context.Context, msg model.ScheduleAssistMessage) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	log := h.log.With().Str("hostId", msg.UserID).Logger()

	windowStart, windowEnd := msg.WindowStartDate, msg.WindowEndDate
	if h.parser != nil && msg.NaturalLanguageRequest != nil && *msg.NaturalLanguageRequest != "" {
		hints, err := h.parser.Parse(ctx, *msg.NaturalLanguageRequest, msg.Timezone)
		if err != nil {
			// The message window stands; parsing is best effort.
			log.Warn().Err(err).Msg("natural language parse failed, using message window")
		} else {
			if hints.WindowStartDate != "" {
				windowStart = hints.WindowStartDate
			}
			if hints.WindowEndDate != "" {
				windowEnd = hints.WindowEndDate
			}
		}
	}

	hostEvents, err := h.events.ListEventsForUserGivenDates(ctx, msg.UserID, windowStart, windowEnd)
	if err != nil {
		return errors.Wrap(err, "list host events")
	}
	meetingIDs := boundMeetingIDs(hostEvents)

	bound, err := h.resolver.ResolveBound(ctx, msg.UserID, meetingIDs)
	if err != nil {
		return errors.Wrap(err, "resolve bound meeting assists")
	}
	future, err := h.resolver.ResolveFuture(ctx, msg.UserID, windowStart, windowEnd)
	if err != nil {
		return errors.Wrap(err, "resolve future meeting assists")
	}

	in := assembler.Input{
		HostID:             msg.UserID,
		HostTimezone:       msg.Timezone,
		WindowStartDate:    windowStart,
		WindowEndDate:      windowEnd,
		Attendees:          mergeAttendees(msg.UserID, bound.Attendees, future.Attendees),
		NewMeetingEvents:   append(bound.Events, future.Events...),
		NewHostReminders:   append(bound.HostReminders, future.HostReminders...),
		NewHostBufferTimes: append(bound.HostBuffers, future.HostBuffers...),
	}

	req, err := h.assembler.Run(ctx, in)
	if err != nil {
		return errors.Wrap(err, "assemble planning run")
	}
	log.Info().
		Str("singletonId", req.SingletonID).
		Int("meetingAssists", len(meetingIDs)).
		Msg("planning request processed")
	return nil
}

// boundMeetingIDs extracts the distinct meeting ids referenced by
// events in the window, in first-seen order. The meeting id alone
// binds an event to a meeting.
func boundMeetingIDs(events []model.Event) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range events {
		if e.MeetingID == nil || *e.MeetingID == "" {
			continue
		}
		if _, ok := seen[*e.MeetingID]; ok {
			continue
		}
		seen[*e.MeetingID] = struct{}{}
		out = append(out, *e.MeetingID)
	}
	return out
}

// mergeAttendees unions attendee lists, dropping duplicates and the
// host, who is planned by the host branch.
func mergeAttendees(hostID string, lists ...[]model.MeetingAssistAttendee) []model.MeetingAssistAttendee {
	seen := make(map[string]struct{})
	var out []model.MeetingAssistAttendee
	for _, list := range lists {
		for _, att := range list {
			if att.UserID == hostID {
				continue
			}
			if _, ok := seen[att.UserID]; ok {
				continue
			}
			seen[att.UserID] = struct{}{}
			out = append(out, att)
		}
	}
	return out
}
