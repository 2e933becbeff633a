// Package nlparser calls the external natural-language parsing service
// that refines a planning request from free text. The collaborator is
// optional: a nil client means no parsing happens.
package nlparser

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Hints is what the parser extracts from free text. Empty fields mean
// the text carried no signal for them.
type Hints struct {
	WindowStartDate string `json:"windowStartDate,omitempty"`
	WindowEndDate   string `json:"windowEndDate,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

type parseRequest struct {
	Text     string `json:"text"`
	Timezone string `json:"timezone"`
}

// Client posts parse requests to the collaborator.
type Client struct {
	http *resty.Client
	url  string
	log  zerolog.Logger
}

func NewClient(url string, log zerolog.Logger) *Client {
	return &Client{
		http: resty.New().SetTimeout(15 * time.Second),
		url:  url,
		log:  log.With().Str("component", "nlparser").Logger(),
	}
}

// Parse extracts scheduling hints from free text.
func (c *Client) Parse(ctx context.Context, text, timezone string) (*Hints, error) {
	var hints Hints
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(parseRequest{Text: text, Timezone: timezone}).
		SetResult(&hints).
		Post(c.url)
	if err != nil {
		return nil, errors.Wrap(err, "parse natural language request")
	}
	if resp.IsError() {
		return nil, errors.Errorf("parser returned HTTP %d", resp.StatusCode())
	}
	return &hints, nil
}
