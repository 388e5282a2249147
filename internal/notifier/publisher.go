package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Queue names. Durable queues, declared idempotently on every publish.
const (
	QueueSlotAvailable  = "waitlist.slot_available"
	QueueWaitlistNotice = "waitlist.notify"
)

// Publisher is the broker-facing side of the waitlist notifier. Callers
// treat publish failures as best effort; the in-app notification row is
// the durable fallback.
type Publisher interface {
	PublishSlotAvailable(ctx context.Context, event SlotAvailableEvent) error
	PublishWaitlistNotice(ctx context.Context, event WaitlistNoticeEvent) error
}

// AMQPPublisher publishes events to RabbitMQ. A connection is dialed per
// publish; waitlist traffic is low enough that connection churn is not a
// concern and it keeps the publisher stateless across broker restarts.
type AMQPPublisher struct {
	url string
}

// NewAMQPPublisher creates a publisher for the given broker URL.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// PublishSlotAvailable publishes a SlotAvailableEvent to the
// waitlist.slot_available queue.
func (p *AMQPPublisher) PublishSlotAvailable(ctx context.Context, event SlotAvailableEvent) error {
	return p.publish(ctx, QueueSlotAvailable, event)
}

// PublishWaitlistNotice publishes a WaitlistNoticeEvent to the
// waitlist.notify queue.
func (p *AMQPPublisher) PublishWaitlistNotice(ctx context.Context, event WaitlistNoticeEvent) error {
	return p.publish(ctx, QueueWaitlistNotice, event)
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, event any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	log.Debug().Str("queue", queue).Msg("event published")
	return nil
}

// NopPublisher drops all events. Used when the broker is disabled.
type NopPublisher struct{}

// PublishSlotAvailable implements Publisher.
func (NopPublisher) PublishSlotAvailable(context.Context, SlotAvailableEvent) error { return nil }

// PublishWaitlistNotice implements Publisher.
func (NopPublisher) PublishWaitlistNotice(context.Context, WaitlistNoticeEvent) error { return nil }
