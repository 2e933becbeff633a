package worker

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pkg/errors"

	"github.com/veltaplan/schedule-assist/internal/model"
)

// Publisher puts planning requests on the stream.
type Publisher struct {
	js      jetstream.JetStream
	subject string
}

func NewPublisher(nc *nats.Conn, subject string) (*Publisher, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, errors.Wrap(err, "get jetstream")
	}
	return &Publisher{js: js, subject: subject}, nil
}

func (p *Publisher) Publish(ctx context.Context, msg model.ScheduleAssistMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return errors.Wrapf(err, "publish to %s", p.subject)
	}
	return nil
}
