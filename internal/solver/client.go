// Package solver dispatches assembled planning requests to the
// timetabling service.
package solver

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/veltaplan/schedule-assist/internal/model"
)

const solveDayPath = "/timeTable/admin/solve-day"

// Dispatcher submits a planning request. The solve is asynchronous; the
// solver posts its solution to the callback URL carried in the body.
type Dispatcher interface {
	Dispatch(ctx context.Context, body model.PlannerRequestBody) error
}

// Client implements Dispatcher over HTTP with basic auth.
type Client struct {
	http     *resty.Client
	url      string
	username string
	password string
	log      zerolog.Logger
}

func NewClient(url, username, password string, log zerolog.Logger) *Client {
	return &Client{
		http:     resty.New().SetTimeout(30 * time.Second),
		url:      url,
		username: username,
		password: password,
		log:      log.With().Str("component", "solver").Logger(),
	}
}

// Dispatch fires the solve request. Submission is fire-and-forget: a 2xx
// acknowledgement is all that is expected here.
func (c *Client) Dispatch(ctx context.Context, body model.PlannerRequestBody) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.username, c.password).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.url + solveDayPath)
	if err != nil {
		return errors.Wrapf(err, "dispatch solve for %s", body.SingletonID)
	}
	if resp.IsError() {
		return errors.Errorf("solver returned HTTP %d for %s: %s", resp.StatusCode(), body.SingletonID, resp.String())
	}
	c.log.Info().
		Str("singletonId", body.SingletonID).
		Str("hostId", body.HostID).
		Str("fileKey", body.FileKey).
		Int("eventParts", len(body.EventParts)).
		Int("timeslots", len(body.Timeslots)).
		Msg("solve dispatched")
	return nil
}
