package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pkg/errors"

	"github.com/veltaplan/schedule-assist/internal/model"
)

func runEnqueue(natsURL, subject, userID, windowStart, windowEnd, timezone, nlRequest string, out io.Writer) error {
	msg := model.ScheduleAssistMessage{
		UserID:          userID,
		WindowStartDate: windowStart,
		WindowEndDate:   windowEnd,
		Timezone:        timezone,
	}
	if nlRequest != "" {
		msg.NaturalLanguageRequest = &nlRequest
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}

	nc, err := nats.Connect(natsURL, nats.Name("schedctl"))
	if err != nil {
		return errors.Wrap(err, "connect nats")
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return errors.Wrap(err, "get jetstream")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ack, err := js.Publish(ctx, subject, data)
	if err != nil {
		return errors.Wrapf(err, "publish to %s", subject)
	}
	fmt.Fprintf(out, "queued: stream=%s seq=%d\n", ack.Stream, ack.Sequence)
	return nil
}
