package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventLeadCreated    = "lead.created"
	EventContactCreated = "contact.created"
)

// Event is the envelope every message on ExchangeName carries.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type LeadCreatedPayload struct {
	LeadID       string    `json:"lead_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	ZipCode      string    `json:"zip_code"`
	CoverageType string    `json:"coverage_type"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

type ContactCreatedPayload struct {
	MessageID string    `json:"message_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type QueueProducerInterface interface {
	PublishLeadCreated(ctx context.Context, payload LeadCreatedPayload) error
	PublishContactCreated(ctx context.Context, payload ContactCreatedPayload) error
}

// channel is the subset of *amqp.Channel the producer needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch  channel
	now func() time.Time
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch, now: func() time.Time { return time.Now().UTC() }}
}

func (p *RabbitMQProducer) PublishLeadCreated(ctx context.Context, payload LeadCreatedPayload) error {
	return p.publish(ctx, EventLeadCreated, payload)
}

func (p *RabbitMQProducer) PublishContactCreated(ctx context.Context, payload ContactCreatedPayload) error {
	return p.publish(ctx, EventContactCreated, payload)
}

func (p *RabbitMQProducer) publish(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: p.now(),
		Data:       data,
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    evt.ID,
			Type:         eventType,
			Timestamp:    evt.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
