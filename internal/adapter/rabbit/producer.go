// Package rabbit adapts the RabbitMQ broker: it consumes inbound updates and
// publishes outbound answers.
package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/telestash/node/internal/domain"
)

// Producer publishes composed answers to the delivery queue. Hand-off is
// fire-and-forget: this node has no visibility into eventual delivery.
type Producer struct {
	ch    *amqp.Channel
	queue string
	log   *slog.Logger
}

// NewProducer opens a channel on the given connection and declares the
// answers queue.
func NewProducer(conn *amqp.Connection, queue string, logger *slog.Logger) (*Producer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbit: open producer channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("rabbit: declare queue %s: %w", queue, err)
	}

	return &Producer{
		ch:    ch,
		queue: queue,
		log:   logger.With("adapter", "rabbit"),
	}, nil
}

// Produce hands one answer to the delivery channel.
func (p *Producer) Produce(ctx context.Context, answer domain.Answer) error {
	body, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("rabbit: encode answer: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbit: publish answer: %w", err)
	}

	p.log.DebugContext(ctx, "answer published", slog.Int64("chat_id", answer.ChatID))
	return nil
}

// Close releases the producer channel.
func (p *Producer) Close() error {
	return p.ch.Close()
}
