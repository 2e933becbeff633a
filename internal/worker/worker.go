package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/veltaplan/schedule-assist/internal/config"
	"github.com/veltaplan/schedule-assist/internal/model"
)

// Worker fetches planning requests from a durable JetStream consumer.
// Successful and permanently failed messages are both taken off the
// stream: failures are terminated rather than redelivered, since a
// redelivery would fail the same way and the run ledger already keeps
// re-runs of a window recognizable.
type Worker struct {
	consumer  jetstream.Consumer
	handler   *Handler
	log       zerolog.Logger
	fetchWait time.Duration
}

func NewWorker(consumer jetstream.Consumer, handler *Handler, fetchWait time.Duration, log zerolog.Logger) *Worker {
	if fetchWait <= 0 {
		fetchWait = 5 * time.Second
	}
	return &Worker{
		consumer:  consumer,
		handler:   handler,
		log:       log.With().Str("component", "worker-loop").Logger(),
		fetchWait: fetchWait,
	}
}

// Connect dials NATS and ensures the stream and durable consumer exist.
func Connect(ctx context.Context, cfg *config.Config) (*nats.Conn, jetstream.Consumer, error) {
	nc, err := nats.Connect(cfg.NATSURL, nats.Name("schedule-assist-worker"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect nats")
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, errors.Wrap(err, "get jetstream")
	}
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.QueueStream,
		Subjects: []string{cfg.QueueSubject},
	})
	if err != nil {
		nc.Close()
		return nil, nil, errors.Wrapf(err, "ensure stream %s", cfg.QueueStream)
	}
	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       cfg.QueueDurable,
		FilterSubject: cfg.QueueSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       cfg.QueueAckWait,
	})
	if err != nil {
		nc.Close()
		return nil, nil, errors.Wrapf(err, "ensure consumer %s", cfg.QueueDurable)
	}
	return nc, consumer, nil
}

// Run fetches and processes messages until the context ends. The
// in-flight message always finishes before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped")
			return nil
		default:
		}

		msgs, err := w.consumer.Fetch(1, jetstream.FetchMaxWait(w.fetchWait))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.log.Error().Stack().Err(err).Msg("fetch failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.fetchWait):
			}
			continue
		}
		for msg := range msgs.Messages() {
			w.process(ctx, msg)
		}
		if err := msgs.Error(); err != nil {
			w.log.Warn().Err(err).Msg("fetch batch error")
		}
	}
}

func (w *Worker) process(ctx context.Context, msg jetstream.Msg) {
	var req model.ScheduleAssistMessage
	if err := json.Unmarshal(msg.Data(), &req); err != nil {
		w.log.Error().Stack().Err(err).Msg("undecodable message terminated")
		w.finish(msg.Term)
		return
	}

	start := time.Now()
	if err := w.handler.Handle(ctx, req); err != nil {
		w.log.Error().Stack().Err(err).
			Str("hostId", req.UserID).
			Dur("elapsed", time.Since(start)).
			Msg("planning request failed")
		w.finish(msg.Term)
		return
	}

	w.log.Info().
		Str("hostId", req.UserID).
		Dur("elapsed", time.Since(start)).
		Msg("message processed")
	w.finish(msg.Ack)
}

func (w *Worker) finish(op func() error) {
	if err := op(); err != nil {
		w.log.Warn().Err(err).Msg("message settlement failed")
	}
}
