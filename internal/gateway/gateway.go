// Package gateway is the GraphQL client for calendar and meeting-assist
// data. All persistence lives behind this gateway; the pipeline only
// reads through it.
package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/veltaplan/schedule-assist/internal/model"
)

// Client posts GraphQL operations to a single admin endpoint.
type Client struct {
	http        *resty.Client
	url         string
	adminSecret string
	role        string
	log         zerolog.Logger
}

// NewClient builds a gateway client. The resty client retries transient
// failures; GraphQL-level errors are never retried.
func NewClient(url, adminSecret, role string, log zerolog.Logger) *Client {
	rc := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Client{
		http:        rc,
		url:         url,
		adminSecret: adminSecret,
		role:        role,
		log:         log.With().Str("component", "gateway").Logger(),
	}
}

type graphQLRequest struct {
	OperationName string                 `json:"operationName"`
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// do posts one operation and unmarshals the data envelope into out.
func (c *Client) do(ctx context.Context, opName, query string, vars map[string]interface{}, out interface{}) error {
	var envelope graphQLResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Hasura-Admin-Secret", c.adminSecret).
		SetHeader("X-Hasura-Role", c.role).
		SetBody(graphQLRequest{OperationName: opName, Query: query, Variables: vars}).
		SetResult(&envelope).
		Post(c.url)
	if err != nil {
		return errors.Wrapf(err, "gateway: %s", opName)
	}
	if resp.IsError() {
		return errors.Errorf("gateway: %s returned HTTP %d: %s", opName, resp.StatusCode(), resp.String())
	}
	if len(envelope.Errors) > 0 {
		return errors.Errorf("gateway: %s: %s", opName, envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return errors.Wrapf(err, "gateway: decode %s response", opName)
		}
	}
	return nil
}

// ListEventsForUserGivenDates returns the user's non-deleted events whose
// span intersects [startDate, endDate], both local timestamps in tz.
func (c *Client) ListEventsForUserGivenDates(ctx context.Context, userID, startDate, endDate string) ([]model.Event, error) {
	var data struct {
		Event []model.Event `json:"Event"`
	}
	vars := map[string]interface{}{
		"userId":    userID,
		"startDate": startDate,
		"endDate":   endDate,
	}
	if err := c.do(ctx, "listEventsForUserGivenDates", queryListEventsForUserGivenDates, vars, &data); err != nil {
		return nil, err
	}
	return data.Event, nil
}

// ListEventsForDate returns the user's events on one calendar day.
func (c *Client) ListEventsForDate(ctx context.Context, userID, startDate, endDate string) ([]model.Event, error) {
	var data struct {
		Event []model.Event `json:"Event"`
	}
	vars := map[string]interface{}{
		"userId":    userID,
		"startDate": startDate,
		"endDate":   endDate,
	}
	if err := c.do(ctx, "listEventsForDate", queryListEventsForDate, vars, &data); err != nil {
		return nil, err
	}
	return data.Event, nil
}

// GetUserPreferences returns the scheduling preferences for a user, or
// nil when none are stored.
func (c *Client) GetUserPreferences(ctx context.Context, userID string) (*model.UserPreferences, error) {
	var data struct {
		UserPreference []model.UserPreferences `json:"User_Preference"`
	}
	vars := map[string]interface{}{"userId": userID}
	if err := c.do(ctx, "getUserPreferences", queryGetUserPreferences, vars, &data); err != nil {
		return nil, err
	}
	if len(data.UserPreference) == 0 {
		return nil, nil
	}
	return &data.UserPreference[0], nil
}

// GetMeetingAssist fetches one pending meeting by id.
func (c *Client) GetMeetingAssist(ctx context.Context, meetingID string) (*model.MeetingAssist, error) {
	var data struct {
		MeetingAssistByPk *model.MeetingAssist `json:"Meeting_Assist_by_pk"`
	}
	vars := map[string]interface{}{"id": meetingID}
	if err := c.do(ctx, "getMeetingAssist", queryGetMeetingAssist, vars, &data); err != nil {
		return nil, err
	}
	return data.MeetingAssistByPk, nil
}

// ListMeetingAssistAttendees returns the participants of a pending meeting.
func (c *Client) ListMeetingAssistAttendees(ctx context.Context, meetingID string) ([]model.MeetingAssistAttendee, error) {
	var data struct {
		Attendees []model.MeetingAssistAttendee `json:"Meeting_Assist_Attendee"`
	}
	vars := map[string]interface{}{"meetingId": meetingID}
	if err := c.do(ctx, "listMeetingAssistAttendees", queryListMeetingAssistAttendees, vars, &data); err != nil {
		return nil, err
	}
	return data.Attendees, nil
}

// ListMeetingAssistEventsForAttendeeGivenDates returns an external
// attendee's busy blocks inside the window.
func (c *Client) ListMeetingAssistEventsForAttendeeGivenDates(ctx context.Context, attendeeID, startDate, endDate string) ([]model.MeetingAssistEvent, error) {
	var data struct {
		Events []model.MeetingAssistEvent `json:"Meeting_Assist_Event"`
	}
	vars := map[string]interface{}{
		"attendeeId": attendeeID,
		"startDate":  startDate,
		"endDate":    endDate,
	}
	if err := c.do(ctx, "listMeetingAssistEventsForAttendeeGivenDates", queryListMeetingAssistEvents, vars, &data); err != nil {
		return nil, err
	}
	return data.Events, nil
}

// ListMeetingAssistPreferredTimeRanges returns attendee-submitted
// preferences for a pending meeting.
func (c *Client) ListMeetingAssistPreferredTimeRanges(ctx context.Context, meetingID string) ([]model.MeetingAssistPreferredTimeRange, error) {
	var data struct {
		Ranges []model.MeetingAssistPreferredTimeRange `json:"Meeting_Assist_Preferred_Time_Range"`
	}
	vars := map[string]interface{}{"meetingId": meetingID}
	if err := c.do(ctx, "listMeetingAssistPreferredTimeRanges", queryListMeetingAssistPreferredTimeRanges, vars, &data); err != nil {
		return nil, err
	}
	return data.Ranges, nil
}

// ListFutureMeetingAssists returns non-cancelled pending meetings whose
// windows fall inside [windowStart, windowEnd] for the user.
func (c *Client) ListFutureMeetingAssists(ctx context.Context, userID, windowStart, windowEnd string) ([]model.MeetingAssist, error) {
	var data struct {
		MeetingAssists []model.MeetingAssist `json:"Meeting_Assist"`
	}
	vars := map[string]interface{}{
		"userId":          userID,
		"windowStartDate": windowStart,
		"windowEndDate":   windowEnd,
	}
	if err := c.do(ctx, "listFutureMeetingAssists", queryListFutureMeetingAssists, vars, &data); err != nil {
		return nil, err
	}
	return data.MeetingAssists, nil
}

// MeetingAttendeeCount returns the number of registered attendees for a
// pending meeting; the quorum gate compares it to minThresholdCount.
func (c *Client) MeetingAttendeeCount(ctx context.Context, meetingID string) (int, error) {
	var data struct {
		Aggregate struct {
			Aggregate struct {
				Count int `json:"count"`
			} `json:"aggregate"`
		} `json:"Meeting_Assist_Attendee_aggregate"`
	}
	vars := map[string]interface{}{"meetingId": meetingID}
	if err := c.do(ctx, "meetingAttendeeCount", queryMeetingAttendeeCount, vars, &data); err != nil {
		return 0, err
	}
	return data.Aggregate.Aggregate.Count, nil
}

// ListPreferredTimeRangesForEvent returns per-event preferred slots.
func (c *Client) ListPreferredTimeRangesForEvent(ctx context.Context, eventID string) ([]model.EventPreferredTimeRange, error) {
	var data struct {
		Ranges []model.EventPreferredTimeRange `json:"PreferredTimeRange"`
	}
	vars := map[string]interface{}{"eventId": eventID}
	if err := c.do(ctx, "listPreferredTimeRangesForEvent", queryListPreferredTimeRangesForEvent, vars, &data); err != nil {
		return nil, err
	}
	return data.Ranges, nil
}

// ListEventsForUserGivenMeetingID returns events already materialized
// for a pending meeting.
func (c *Client) ListEventsForUserGivenMeetingID(ctx context.Context, userID, meetingID string) ([]model.Event, error) {
	var data struct {
		Event []model.Event `json:"Event"`
	}
	vars := map[string]interface{}{
		"userId":    userID,
		"meetingId": meetingID,
	}
	if err := c.do(ctx, "listEventsForUserGivenMeetingId", queryListEventsForUserGivenMeetingID, vars, &data); err != nil {
		return nil, err
	}
	return data.Event, nil
}

// GetGlobalPrimaryCalendar returns the user's global-primary calendar,
// or nil when none is marked.
func (c *Client) GetGlobalPrimaryCalendar(ctx context.Context, userID string) (*model.Calendar, error) {
	var data struct {
		Calendar []model.Calendar `json:"Calendar"`
	}
	vars := map[string]interface{}{"userId": userID}
	if err := c.do(ctx, "getGlobalPrimaryCalendar", queryGetGlobalPrimaryCalendar, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Calendar) == 0 {
		return nil, nil
	}
	return &data.Calendar[0], nil
}

// Ping verifies gateway connectivity for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", `query ping { __typename }`, nil, nil)
}
