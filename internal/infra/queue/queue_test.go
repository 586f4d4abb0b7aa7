package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, msg)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyLeadCreated(ctx context.Context, p LeadCreatedPayload) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockNotifier) NotifyContactCreated(ctx context.Context, p ContactCreatedPayload) error {
	return m.Called(ctx, p).Error(0)
}

// fakeAck records the outcome of a delivery.
type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(uint64, bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}
func (f *fakeAck) Reject(_ uint64, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}

func TestProducer_PublishLeadCreated(t *testing.T) {
	ch := new(MockChannel)
	var sent amqp.Publishing
	ch.On("PublishWithContext", mock.Anything, ExchangeName, RoutingKey, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(3).(amqp.Publishing) }).
		Return(nil)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &RabbitMQProducer{Ch: ch, now: func() time.Time { return fixed }}

	err := p.PublishLeadCreated(context.Background(), LeadCreatedPayload{LeadID: "l-1", Name: "Jane Doe", CoverageType: "Auto"})
	require.NoError(t, err)

	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	assert.Equal(t, EventLeadCreated, sent.Type)
	assert.Equal(t, "application/json", sent.ContentType)

	var evt Event
	require.NoError(t, json.Unmarshal(sent.Body, &evt))
	assert.Equal(t, EventLeadCreated, evt.Type)
	assert.Equal(t, sent.MessageId, evt.ID)
	assert.True(t, evt.OccurredAt.Equal(fixed))
	assert.JSONEq(t, `{"lead_id":"l-1","name":"Jane Doe","email":"","phone":"","zip_code":"","coverage_type":"Auto","source":"","created_at":"0001-01-01T00:00:00Z"}`, string(evt.Data))
}

func TestProducer_PublishError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(amqp.ErrClosed)

	p := &RabbitMQProducer{Ch: ch, now: time.Now}
	err := p.PublishContactCreated(context.Background(), ContactCreatedPayload{MessageID: "m-1"})
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func delivery(t *testing.T, eventType string, data any) (amqp.Delivery, *fakeAck) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	body, err := json.Marshal(Event{ID: "e-1", Type: eventType, Data: raw})
	require.NoError(t, err)
	ack := &fakeAck{}
	return amqp.Delivery{Acknowledger: ack, Body: body}, ack
}

func TestWorker_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("lead created is notified and acked", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("NotifyLeadCreated", mock.Anything, LeadCreatedPayload{LeadID: "l-1", Name: "Jane"}).Return(nil)
		w := NewWorker(nil, n, zap.NewNop())

		d, ack := delivery(t, EventLeadCreated, LeadCreatedPayload{LeadID: "l-1", Name: "Jane"})
		w.handle(ctx, d)

		n.AssertExpectations(t)
		assert.True(t, ack.acked)
	})

	t.Run("send failure is dead-lettered", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("NotifyContactCreated", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
		w := NewWorker(nil, n, zap.NewNop())

		d, ack := delivery(t, EventContactCreated, ContactCreatedPayload{MessageID: "m-1"})
		w.handle(ctx, d)

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})

	t.Run("malformed body is dead-lettered", func(t *testing.T) {
		w := NewWorker(nil, new(MockNotifier), zap.NewNop())
		ack := &fakeAck{}
		w.handle(ctx, amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})

	t.Run("unknown type is acked", func(t *testing.T) {
		n := new(MockNotifier)
		w := NewWorker(nil, n, zap.NewNop())

		d, ack := delivery(t, "policy.bound", map[string]string{})
		w.handle(ctx, d)

		assert.True(t, ack.acked)
		n.AssertNotCalled(t, "NotifyLeadCreated", mock.Anything, mock.Anything)
	})
}
