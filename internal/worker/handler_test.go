package worker

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltaplan/schedule-assist/internal/assembler"
	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/nlparser"
	"github.com/veltaplan/schedule-assist/internal/resolver"
)

type fakeEventLister struct {
	events []model.Event
	err    error
	calls  int
	start  string
	end    string
}

func (f *fakeEventLister) ListEventsForUserGivenDates(ctx context.Context, userID, startDate, endDate string) ([]model.Event, error) {
	f.calls++
	f.start, f.end = startDate, endDate
	return f.events, f.err
}

type fakeResolver struct {
	bound         resolver.Result
	future        resolver.Result
	boundErr      error
	boundMeetings []string
}

func (f *fakeResolver) ResolveBound(ctx context.Context, hostID string, meetingIDs []string) (resolver.Result, error) {
	f.boundMeetings = meetingIDs
	return f.bound, f.boundErr
}

func (f *fakeResolver) ResolveFuture(ctx context.Context, hostID, windowStart, windowEnd string) (resolver.Result, error) {
	return f.future, nil
}

type fakeRunAssembler struct {
	in  assembler.Input
	err error
	ran bool
}

func (f *fakeRunAssembler) Run(ctx context.Context, in assembler.Input) (*model.PlannerRequestBody, error) {
	f.in = in
	f.ran = true
	if f.err != nil {
		return nil, f.err
	}
	return &model.PlannerRequestBody{SingletonID: "run-1", HostID: in.HostID}, nil
}

type fakeParser struct {
	hints *nlparser.Hints
	err   error
	text  string
}

func (f *fakeParser) Parse(ctx context.Context, text, timezone string) (*nlparser.Hints, error) {
	f.text = text
	return f.hints, f.err
}

func testMessage() model.ScheduleAssistMessage {
	return model.ScheduleAssistMessage{
		UserID:          "host-1",
		WindowStartDate: "2026-01-05T00:00:00",
		WindowEndDate:   "2026-01-09T23:59:59",
		Timezone:        "America/New_York",
	}
}

func strPtr(s string) *string { return &s }

func meetingEvent(id, meetingID string) model.Event {
	return model.Event{
		ID:        id,
		UserID:    "host-1",
		IsMeeting: true,
		MeetingID: &meetingID,
	}
}

func TestHandle_InvalidMessageRejectedBeforeFetch(t *testing.T) {
	events := &fakeEventLister{}
	h := NewHandler(events, &fakeResolver{}, &fakeRunAssembler{}, nil, zerolog.Nop())

	msg := testMessage()
	msg.WindowEndDate = ""
	err := h.Handle(context.Background(), msg)

	require.Error(t, err)
	assert.Zero(t, events.calls)
}

func TestHandle_BoundMeetingIDsAreDistinct(t *testing.T) {
	events := &fakeEventLister{events: []model.Event{
		meetingEvent("e1#cal", "m1"),
		meetingEvent("e2#cal", "m2"),
		meetingEvent("e3#cal", "m1"),
		{ID: "e4#cal", UserID: "host-1"},
	}}
	res := &fakeResolver{}
	asm := &fakeRunAssembler{}
	h := NewHandler(events, res, asm, nil, zerolog.Nop())

	require.NoError(t, h.Handle(context.Background(), testMessage()))
	assert.Equal(t, []string{"m1", "m2"}, res.boundMeetings)
	assert.True(t, asm.ran)
}

func TestHandle_MeetingIDAloneBindsEvent(t *testing.T) {
	synced := meetingEvent("e1#cal", "m1")
	synced.IsMeeting = false
	events := &fakeEventLister{events: []model.Event{synced}}
	res := &fakeResolver{}
	h := NewHandler(events, res, &fakeRunAssembler{}, nil, zerolog.Nop())

	require.NoError(t, h.Handle(context.Background(), testMessage()))
	assert.Equal(t, []string{"m1"}, res.boundMeetings)
}

func TestHandle_MergesResolutionIntoAssemblerInput(t *testing.T) {
	res := &fakeResolver{
		bound: resolver.Result{
			Events:    []model.Event{{ID: "nm1#cal", UserID: "u2"}},
			Attendees: []model.MeetingAssistAttendee{{ID: "a1", UserID: "u2"}, {ID: "a2", UserID: "host-1"}},
			HostReminders: []model.Reminder{
				{ID: "r1", UserID: "host-1", EventID: "nm1#cal", Minutes: 10},
			},
		},
		future: resolver.Result{
			Events:      []model.Event{{ID: "nm2#cal", UserID: "u3"}},
			Attendees:   []model.MeetingAssistAttendee{{ID: "a3", UserID: "u3"}, {ID: "a4", UserID: "u2"}},
			HostBuffers: []model.Event{{ID: "buf1#cal", UserID: "host-1", IsPreEvent: true}},
		},
	}
	asm := &fakeRunAssembler{}
	h := NewHandler(&fakeEventLister{}, res, asm, nil, zerolog.Nop())

	require.NoError(t, h.Handle(context.Background(), testMessage()))

	in := asm.in
	assert.Equal(t, "host-1", in.HostID)
	assert.Equal(t, "America/New_York", in.HostTimezone)
	require.Len(t, in.Attendees, 2)
	assert.Equal(t, "u2", in.Attendees[0].UserID)
	assert.Equal(t, "u3", in.Attendees[1].UserID)
	assert.Len(t, in.NewMeetingEvents, 2)
	assert.Len(t, in.NewHostReminders, 1)
	assert.Len(t, in.NewHostBufferTimes, 1)
}

func TestHandle_ParserHintsOverrideWindow(t *testing.T) {
	events := &fakeEventLister{}
	parser := &fakeParser{hints: &nlparser.Hints{
		WindowStartDate: "2026-01-12T00:00:00",
		WindowEndDate:   "2026-01-16T23:59:59",
	}}
	asm := &fakeRunAssembler{}
	h := NewHandler(events, &fakeResolver{}, asm, parser, zerolog.Nop())

	msg := testMessage()
	msg.NaturalLanguageRequest = strPtr("plan my next week")
	require.NoError(t, h.Handle(context.Background(), msg))

	assert.Equal(t, "plan my next week", parser.text)
	assert.Equal(t, "2026-01-12T00:00:00", events.start)
	assert.Equal(t, "2026-01-16T23:59:59", events.end)
	assert.Equal(t, "2026-01-12T00:00:00", asm.in.WindowStartDate)
}

func TestHandle_ParserFailureFallsBackToMessageWindow(t *testing.T) {
	events := &fakeEventLister{}
	parser := &fakeParser{err: errors.New("parser unavailable")}
	h := NewHandler(events, &fakeResolver{}, &fakeRunAssembler{}, parser, zerolog.Nop())

	msg := testMessage()
	msg.NaturalLanguageRequest = strPtr("plan my next week")
	require.NoError(t, h.Handle(context.Background(), msg))
	assert.Equal(t, msg.WindowStartDate, events.start)
	assert.Equal(t, msg.WindowEndDate, events.end)
}

func TestHandle_AssemblerErrorPropagates(t *testing.T) {
	asm := &fakeRunAssembler{err: errors.New("no timeslots")}
	h := NewHandler(&fakeEventLister{}, &fakeResolver{}, asm, nil, zerolog.Nop())

	err := h.Handle(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assemble planning run")
}

func TestMergeAttendees_DropsHostAndDuplicates(t *testing.T) {
	merged := mergeAttendees("host-1",
		[]model.MeetingAssistAttendee{{ID: "a1", UserID: "u1"}, {ID: "a2", UserID: "host-1"}},
		[]model.MeetingAssistAttendee{{ID: "a3", UserID: "u1"}, {ID: "a4", UserID: "u2"}},
	)
	require.Len(t, merged, 2)
	assert.Equal(t, "u1", merged[0].UserID)
	assert.Equal(t, "u2", merged[1].UserID)
}
