package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier delivers staff notifications for domain events.
type Notifier interface {
	NotifyLeadCreated(ctx context.Context, p LeadCreatedPayload) error
	NotifyContactCreated(ctx context.Context, p ContactCreatedPayload) error
}

var errMalformed = errors.New("malformed event")

type Worker struct {
	Channel  *amqp.Channel
	Notifier Notifier
	Log      *zap.Logger
}

func NewWorker(ch *amqp.Channel, notifier Notifier, log *zap.Logger) *Worker {
	return &Worker{Channel: ch, Notifier: notifier, Log: log}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	if err := w.Channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Log.Info("worker waiting for messages", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

// handle acks processed and unknown events. Malformed bodies and failed
// notifications are rejected without requeue so they land in the DLQ.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	if err := w.processMessage(ctx, d.Body); err != nil {
		w.Log.Error("notification failed",
			zap.String("message_id", d.MessageId),
			zap.Error(err),
		)
		if nackErr := d.Nack(false, false); nackErr != nil {
			w.Log.Warn("nack failed", zap.Error(nackErr))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		w.Log.Warn("ack failed", zap.Error(err))
	}
}

func (w *Worker) processMessage(ctx context.Context, body []byte) error {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	switch evt.Type {
	case EventLeadCreated:
		var p LeadCreatedPayload
		if err := json.Unmarshal(evt.Data, &p); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}
		w.Log.Info("notifying lead", zap.String("lead_id", p.LeadID))
		return w.Notifier.NotifyLeadCreated(ctx, p)

	case EventContactCreated:
		var p ContactCreatedPayload
		if err := json.Unmarshal(evt.Data, &p); err != nil {
			return fmt.Errorf("%w: %v", errMalformed, err)
		}
		w.Log.Info("notifying contact message", zap.String("message_id", p.MessageID))
		return w.Notifier.NotifyContactCreated(ctx, p)

	default:
		w.Log.Warn("unknown event type, dropping", zap.String("type", evt.Type))
		return nil
	}
}
