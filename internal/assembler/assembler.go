// Package assembler turns a host's planning window into a solver
// request: branch processing per participant, deduplication, bundle
// persistence and dispatch.
package assembler

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/objstore"
	"github.com/veltaplan/schedule-assist/internal/runledger"
	"github.com/veltaplan/schedule-assist/internal/solver"
)

// Run-fatal assembly errors. Branch failures are contained; these mean
// there is nothing to plan.
var (
	ErrNoEventParts = errors.New("event parts length is 0 or do not exist")
	ErrNoTimeslots  = errors.New("no timeslots generated for window")
	ErrNoUsers      = errors.New("user list is empty")
)

// Gateway is the slice of the GraphQL client the assembler reads through.
type Gateway interface {
	ListEventsForUserGivenDates(ctx context.Context, userID, startDate, endDate string) ([]model.Event, error)
	ListEventsForDate(ctx context.Context, userID, startDate, endDate string) ([]model.Event, error)
	GetUserPreferences(ctx context.Context, userID string) (*model.UserPreferences, error)
	ListPreferredTimeRangesForEvent(ctx context.Context, eventID string) ([]model.EventPreferredTimeRange, error)
	ListMeetingAssistEventsForAttendeeGivenDates(ctx context.Context, attendeeID, startDate, endDate string) ([]model.MeetingAssistEvent, error)
}

// Ledger issues attempt counters for run identity.
type Ledger interface {
	NextAttempt(ctx context.Context, hostID, windowStart, windowEnd string) (int, error)
}

// Input is one planning run: the host, the window, and everything the
// meeting-assist resolution phase contributed.
type Input struct {
	HostID          string
	HostTimezone    string
	WindowStartDate string // local timestamp in HostTimezone
	WindowEndDate   string

	// Attendees of pending meetings inside the window; the host itself
	// must not appear here.
	Attendees []model.MeetingAssistAttendee

	// Placeholder events synthesized by the resolver, grouped by owner.
	NewMeetingEvents []model.Event

	// Reminders and buffers synthesized for the host's new meetings,
	// carried through into the bundle for the callback handler.
	NewHostReminders   []model.Reminder
	NewHostBufferTimes []model.Event
}

// Assembler wires the branches to the object store and solver. All
// collaborators are injected; construction happens at the entry point.
type Assembler struct {
	gw     Gateway
	store  objstore.Store
	solver solver.Dispatcher
	ledger Ledger
	log    zerolog.Logger

	concurrency int
	delay       time.Duration
	callbackURL string
	now         func() time.Time
}

func New(gw Gateway, store objstore.Store, dispatcher solver.Dispatcher, ledger Ledger, concurrency int, delay time.Duration, callbackURL string, log zerolog.Logger) *Assembler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Assembler{
		gw:          gw,
		store:       store,
		solver:      dispatcher,
		ledger:      ledger,
		log:         log.With().Str("component", "assembler").Logger(),
		concurrency: concurrency,
		delay:       delay,
		callbackURL: callbackURL,
		now:         time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (a *Assembler) WithNow(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Run executes one planning run end to end. The bundle is written to
// the object store strictly before the solver is dispatched.
func (a *Assembler) Run(ctx context.Context, in Input) (*model.PlannerRequestBody, error) {
	results, err := a.fanOut(ctx, in)
	if err != nil {
		return nil, err
	}

	bundle := a.merge(in, results)
	if len(bundle.EventParts) == 0 {
		return nil, ErrNoEventParts
	}
	if len(bundle.Timeslots) == 0 {
		return nil, ErrNoTimeslots
	}
	if len(bundle.UserList) == 0 {
		return nil, ErrNoUsers
	}

	attempt, err := a.ledger.NextAttempt(ctx, in.HostID, in.WindowStartDate, in.WindowEndDate)
	if err != nil {
		return nil, err
	}
	singletonID := runledger.RunID(in.HostID, in.WindowStartDate, in.WindowEndDate, attempt)
	fileKey := fmt.Sprintf("%s/%s.json", in.HostID, singletonID)

	bundle.SingletonID = singletonID
	bundle.HostID = in.HostID
	bundle.NewHostReminders = in.NewHostReminders
	bundle.NewHostBufferTimes = in.NewHostBufferTimes

	if err := a.store.PutJSON(ctx, fileKey, bundle); err != nil {
		return nil, errors.Wrap(err, "persist planner bundle")
	}

	req := model.PlannerRequestBody{
		SingletonID: singletonID,
		HostID:      in.HostID,
		Timeslots:   bundle.Timeslots,
		UserList:    bundle.UserList,
		EventParts:  bundle.EventParts,
		FileKey:     fileKey,
		Delay:       a.delay.Milliseconds(),
		CallBackURL: a.callbackURL,
	}
	if err := a.solver.Dispatch(ctx, req); err != nil {
		return nil, errors.Wrap(err, "dispatch solver")
	}

	a.log.Info().
		Str("hostId", in.HostID).
		Str("singletonId", singletonID).
		Int("attempt", attempt).
		Int("eventParts", len(bundle.EventParts)).
		Int("users", len(bundle.UserList)).
		Msg("planning run assembled")
	return &req, nil
}

// fanOut runs the host branch plus one branch per attendee on a bounded
// pool and joins before any merging happens. A failed attendee branch is
// logged and dropped; a failed host branch fails the run.
func (a *Assembler) fanOut(ctx context.Context, in Input) ([]BranchResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	results := make([]BranchResult, 1+len(in.Attendees))
	ok := make([]bool, 1+len(in.Attendees))

	g.Go(func() error {
		res, err := a.processHost(gctx, in)
		if err != nil {
			return errors.Wrap(err, "host branch")
		}
		results[0], ok[0] = res, true
		return nil
	})

	for i, att := range in.Attendees {
		g.Go(func() error {
			var res BranchResult
			var err error
			if att.ExternalAttendee {
				res, err = a.processExternalAttendee(gctx, in, att)
			} else {
				res, err = a.processInternalAttendee(gctx, in, att)
			}
			if err != nil {
				// Contained: a broken attendee calendar must not sink
				// the host's run.
				a.log.Warn().Err(err).
					Str("attendeeId", att.ID).
					Str("userId", att.UserID).
					Msg("attendee branch failed, skipping")
				return nil
			}
			results[i+1], ok[i+1] = res, true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for i, res := range results {
		if ok[i] {
			out = append(out, res)
		}
	}
	return out, nil
}

// merge unions the branch outputs and deduplicates every collection
// with keyed single-pass dedup.
func (a *Assembler) merge(in Input, results []BranchResult) *model.PlannerBundle {
	bundle := &model.PlannerBundle{}
	for _, res := range results {
		bundle.EventParts = append(bundle.EventParts, res.EventParts...)
		bundle.AllEvents = append(bundle.AllEvents, res.AllEvents...)
		bundle.BreakEvents = append(bundle.BreakEvents, res.Breaks...)
		bundle.OldEvents = append(bundle.OldEvents, res.OldEvents...)
		bundle.OldAttendeeEvents = append(bundle.OldAttendeeEvents, res.OldAttendeeEvents...)
		bundle.Timeslots = append(bundle.Timeslots, res.Timeslots...)
		bundle.UserList = append(bundle.UserList, res.UserBody)
	}

	bundle.EventParts = dedupBy(bundle.EventParts, eventPartKey)
	bundle.AllEvents = dedupBy(bundle.AllEvents, func(e model.Event) string { return e.ID })
	bundle.BreakEvents = dedupBy(bundle.BreakEvents, func(e model.Event) string { return e.ID })
	bundle.OldEvents = dedupBy(bundle.OldEvents, func(e model.Event) string { return e.ID })
	bundle.OldAttendeeEvents = dedupBy(bundle.OldAttendeeEvents, func(e model.MeetingAssistEvent) string { return e.ID })
	bundle.Timeslots = dedupBy(bundle.Timeslots, timeslotKey)
	bundle.UserList = dedupBy(bundle.UserList, func(u model.UserPlannerBody) string { return u.ID })
	return bundle
}
