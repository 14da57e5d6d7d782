package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/telestash/node/internal/domain"
)

// UpdateHandler processes one inbound update. Implementations must never
// panic across this boundary; the consumer still guards with a recover so a
// poisoned message cannot take the worker down.
type UpdateHandler interface {
	Handle(ctx context.Context, update *domain.Update)
}

// Consumer pulls inbound updates from the broker and fans them out to a
// bounded pool of workers. Each delivery is acknowledged after handling;
// malformed payloads are acked and dropped (they are already in the raw log
// on the producing side and can never succeed on redelivery).
type Consumer struct {
	ch      *amqp.Channel
	queue   string
	workers int
	handler UpdateHandler
	log     *slog.Logger
}

// NewConsumer opens a channel, declares the updates queue and applies the
// prefetch limit.
func NewConsumer(conn *amqp.Connection, queue string, workers, prefetch int, handler UpdateHandler, logger *slog.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbit: open consumer channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("rabbit: declare queue %s: %w", queue, err)
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("rabbit: set qos: %w", err)
	}

	return &Consumer{
		ch:      ch,
		queue:   queue,
		workers: workers,
		handler: handler,
		log:     logger.With("adapter", "rabbit"),
	}, nil
}

// Run consumes deliveries until ctx is cancelled or the broker closes the
// channel underneath us. An unexpected close is returned as an error so the
// caller shuts the node down instead of idling with no input. It blocks;
// callers run it in a goroutine.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbit: consume %s: %w", c.queue, err)
	}

	closed := c.ch.NotifyClose(make(chan *amqp.Error, 1))

	return c.consume(ctx, deliveries, closed)
}

// consume fans deliveries out to the bounded worker pool and blocks until
// ctx is cancelled, the broker signals a close, or the deliveries channel
// drains out from under the workers.
func (c *Consumer) consume(ctx context.Context, deliveries <-chan amqp.Delivery, closed <-chan *amqp.Error) error {
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.work(ctx, deliveries)
		}()
	}

	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()

	select {
	case <-ctx.Done():
		// Closing the channel ends the deliveries range in every worker.
		if err := c.ch.Close(); err != nil {
			c.log.Warn("consumer channel close", slog.String("error", err.Error()))
		}
		<-drained
		return ctx.Err()

	case amqpErr := <-closed:
		<-drained
		if amqpErr != nil {
			return fmt.Errorf("rabbit: consumer channel closed: %w", amqpErr)
		}
		return errors.New("rabbit: consumer channel closed")

	case <-drained:
		// Workers exited without a shutdown request. Prefer the broker's
		// close reason when one has already arrived.
		select {
		case amqpErr := <-closed:
			if amqpErr != nil {
				return fmt.Errorf("rabbit: consumer channel closed: %w", amqpErr)
			}
		default:
		}
		return errors.New("rabbit: deliveries channel closed")
	}
}

func (c *Consumer) work(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		c.handleDelivery(ctx, d)
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			c.log.ErrorContext(ctx, "panic while handling update", slog.Any("error", r))
			_ = d.Nack(false, false)
		}
	}()

	var update domain.Update
	if err := json.Unmarshal(d.Body, &update); err != nil {
		c.log.ErrorContext(ctx, "malformed update payload", slog.String("error", err.Error()))
		_ = d.Ack(false)
		return
	}

	c.handler.Handle(ctx, &update)
	_ = d.Ack(false)
}
